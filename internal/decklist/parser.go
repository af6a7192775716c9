// Package decklist parses line-oriented decklist text into quantity/name
// pairs grouped by board section.
package decklist

import (
	"regexp"
	"strconv"
	"strings"
)

// Line is a single parsed decklist entry.
type Line struct {
	Quantity int
	Name     string
}

// List holds the parsed sections of a decklist.
type List struct {
	Main      []Line
	Maybe     []Line
	Sideboard []Line
}

// cardLinePattern matches "<quantity> <card name>".
var cardLinePattern = regexp.MustCompile(`^(\d+)\s+(.+)$`)

// Parse reads decklist text. Section headers switch the active board:
// lines starting with "main" or "deck" select the mainboard, "maybe" or
// "consider" the maybeboard, and "side" or "board" the sideboard. Card
// lines are "<quantity> <name>"; an alternate-face suffix after "//" is
// stripped from the name. Blank and unrecognized lines are ignored, so
// Parse never fails.
func Parse(input string) *List {
	list := &List{
		Main:      []Line{},
		Maybe:     []Line{},
		Sideboard: []Line{},
	}

	section := &list.Main
	for _, raw := range strings.Split(input, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "main"), strings.HasPrefix(lower, "deck"):
			section = &list.Main
			continue
		case strings.HasPrefix(lower, "maybe"), strings.HasPrefix(lower, "consider"):
			section = &list.Maybe
			continue
		case strings.HasPrefix(lower, "side"), strings.HasPrefix(lower, "board"):
			section = &list.Sideboard
			continue
		}

		matches := cardLinePattern.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		quantity, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}

		name := matches[2]
		if slash := strings.Index(name, "//"); slash >= 0 {
			name = name[:slash]
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		*section = append(*section, Line{Quantity: quantity, Name: name})
	}

	return list
}
