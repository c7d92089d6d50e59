package preview

import (
	"regexp"
	"strings"

	"go-payrun/internal/engine"

	"github.com/shopspring/decimal"
)

var statutoryPattern = regexp.MustCompile(`(?i)\b(SSF|CIT)\b|retirement`)

// SectionOf returns the display section for one engine component line.
func SectionOf(c engine.ComponentLine) string {
	if strings.EqualFold(strings.TrimSpace(c.Type), engine.KindEarning) {
		return SectionGrossEarnings
	}
	if statutoryPattern.MatchString(c.Label) {
		return SectionStatutory
	}
	return SectionOther
}

// Categorize groups lines into the three fixed sections, in display order.
// Each section keeps the engine's line order; empty sections are still listed.
func Categorize(components []engine.ComponentLine) []Section {
	order := []string{SectionGrossEarnings, SectionStatutory, SectionOther}
	sections := make(map[string]*Section, len(order))
	for _, title := range order {
		sections[title] = &Section{Title: title, Lines: []Line{}, Total: decimal.Zero}
	}

	for _, c := range components {
		sec := sections[SectionOf(c)]
		sec.Lines = append(sec.Lines, Line{
			ComponentID: c.ComponentID,
			Label:       c.Label,
			Amount:      c.Amount,
			Kind:        strings.ToUpper(strings.TrimSpace(c.Type)),
		})
		sec.Total = sec.Total.Add(c.Amount)
	}

	out := make([]Section, 0, len(order))
	for _, title := range order {
		out = append(out, *sections[title])
	}
	return out
}
