// Package mana parses mana cost notation into generic and colored components.
package mana

import (
	"regexp"
	"strings"
)

var symbolPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ParseCost splits a mana cost string such as "{2}{W}{B}" into its generic
// (numeric) component and the ordered list of colored pips. Each variable
// symbol {X} resolves to xValue. Hybrid symbols such as {W/U} contribute
// only their first listed color. An empty cost yields (0, []).
//
// Unrecognized symbols are treated as color pips rather than rejected; the
// parser is deliberately permissive and never fails.
func ParseCost(cost string, xValue int) (int, []string) {
	generic := 0
	pips := []string{}
	if cost == "" {
		return generic, pips
	}

	variables := 0
	for _, match := range symbolPattern.FindAllStringSubmatch(cost, -1) {
		symbol := match[1]

		if n, ok := parseNumeric(symbol); ok {
			generic += n
			continue
		}
		if symbol == "X" {
			variables++
			continue
		}
		if slash := strings.IndexByte(symbol, '/'); slash >= 0 {
			pips = append(pips, symbol[:slash])
			continue
		}
		pips = append(pips, symbol)
	}

	generic += variables * xValue
	return generic, pips
}

// parseNumeric reports whether the symbol is a plain decimal integer.
// Signed forms like "-1" are not numeric mana symbols.
func parseNumeric(symbol string) (int, bool) {
	if symbol == "" {
		return 0, false
	}
	n := 0
	for _, r := range symbol {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
