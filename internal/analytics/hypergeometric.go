// Package analytics provides closed-form probability models for opening
// hands and mulligan decisions, independent of the stochastic oracle.
package analytics

// Defaults for the mulligan models.
const (
	DefaultHandSize    = 7
	DefaultMinSources  = 3
	DefaultMaxLands    = 5
	DefaultTargetLands = 3

	// The land window treated as an ideal keep for free-mulligan odds.
	DefaultKeepMinLands = 3
	DefaultKeepMaxLands = 4
)

// binomial returns C(n, r) as a float64, and 0 whenever r < 0 or r > n.
// The iterative product keeps intermediate values well inside float64
// range for any realistic deck size.
func binomial(n, r int) float64 {
	if r < 0 || r > n {
		return 0
	}
	if r > n-r {
		r = n - r
	}
	result := 1.0
	for i := 0; i < r; i++ {
		result *= float64(n-i) / float64(i+1)
	}
	return result
}

// Hypergeometric returns P(X = k) when drawing n cards without replacement
// from a deck of N cards containing K successes. Out-of-support inputs
// yield 0 rather than an error.
func Hypergeometric(N, K, n, k int) float64 {
	denom := binomial(N, n)
	if denom == 0 {
		return 0
	}
	return binomial(K, k) * binomial(N-K, n-k) / denom
}

// OpeningHandLandProb maps each possible land count k = 0..handSize to the
// probability of drawing exactly k lands in the opening hand.
func OpeningHandLandProb(deckSize, landCount, handSize int) map[int]float64 {
	probs := make(map[int]float64, handSize+1)
	for k := 0; k <= handSize; k++ {
		probs[k] = Hypergeometric(deckSize, landCount, handSize, k)
	}
	return probs
}

// MulliganSuccess returns, for each hand size from 7 down to 4, the
// probability of an immediately keepable hand: at least minSources mana
// sources (lands plus fast mana) and at most maxLands lands. Each hand
// size is computed independently, not conditioned on earlier mulligans.
// Keys are "mull_to_7" through "mull_to_4".
func MulliganSuccess(deckSize, landCount, fastManaCount, minSources, maxLands int) map[string]float64 {
	results := make(map[string]float64, 4)
	other := deckSize - landCount - fastManaCount

	for handSize := 7; handSize >= 4; handSize-- {
		p := 0.0
		for l := 0; l <= minInt(handSize, landCount); l++ {
			for f := 0; f <= minInt(handSize-l, fastManaCount); f++ {
				if l+f < minSources || l > maxLands {
					continue
				}
				rest := handSize - l - f
				if rest > other {
					continue
				}
				denom := binomial(deckSize, handSize)
				if denom == 0 {
					continue
				}
				p += binomial(landCount, l) * binomial(fastManaCount, f) * binomial(other, rest) / denom
			}
		}
		results[mullKey(handSize)] = p
	}

	return results
}

// MulliganDistribution derives where a player stops mulliganing when they
// keep any hand with at least targetLands lands. The four outputs are a
// complete distribution: stop_4 is the complement, so they sum to 1.
func MulliganDistribution(deckSize, landCount, targetLands int) map[string]float64 {
	p7 := atLeast(deckSize, landCount, 7, targetLands)
	p6 := atLeast(deckSize, landCount, 6, targetLands)
	p5 := atLeast(deckSize, landCount, 5, targetLands)

	return map[string]float64{
		"stop_7": p7,
		"stop_6": (1 - p7) * p6,
		"stop_5": (1 - p7) * (1 - p6) * p5,
		"stop_4": (1 - p7) * (1 - p6) * (1 - p5),
	}
}

// FreeMulliganAnalysis returns the probability of a 7-card hand holding
// between minLands and maxLands lands, with and without one free mulligan.
// The free-mulligan figure treats the two hands as independent draws.
func FreeMulliganAnalysis(deckSize, landCount, minLands, maxLands int) map[string]float64 {
	p := 0.0
	for k := minLands; k <= maxLands; k++ {
		p += Hypergeometric(deckSize, landCount, 7, k)
	}

	return map[string]float64{
		"no_mulligan":        p,
		"with_free_mulligan": 1 - (1-p)*(1-p),
	}
}

// atLeast sums the upper tail of the hypergeometric distribution for a
// hand of the given size.
func atLeast(deckSize, landCount, handSize, target int) float64 {
	p := 0.0
	for k := target; k <= handSize; k++ {
		p += Hypergeometric(deckSize, landCount, handSize, k)
	}
	return p
}

func mullKey(handSize int) string {
	switch handSize {
	case 7:
		return "mull_to_7"
	case 6:
		return "mull_to_6"
	case 5:
		return "mull_to_5"
	default:
		return "mull_to_4"
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
