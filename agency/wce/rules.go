package wce

import (
	"regexp"
	"strings"

	"github.com/mtransitapps/gtfs/clean"
)

type rules struct {
	tripHeadsign  clean.Pipeline
	stopName      clean.Pipeline
	routeLongName clean.Pipeline
}

// phrase turns a configured phrase into a pattern matching it with any inner whitespace.
func phrase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = regexp.QuoteMeta(word)
	}
	return strings.Join(words, `\s+`)
}

func newRules(cfg Config) (rules, error) {
	trademark := `(^|\W)(` + phrase(cfg.Trademark) + `)(\W|$)`

	var headsignRules clean.RuleSet
	if cfg.HeadsignLeadIn != "" {
		leadIn, err := clean.CompileRule("brand lead-in", `^\s*`+phrase(cfg.HeadsignLeadIn)+`\b`, "")
		if err != nil {
			return rules{}, err
		}
		headsignRules = append(headsignRules, leadIn)
	}
	for _, r := range []struct{ name, pattern, replacement string }{
		{"leading quote", `^\s*"`, ""},
		{"trailing quote", `";?\s*$`, ""},
		{"bare trademark", trademark, "${1}${3}"},
	} {
		rule, err := clean.CompileRule(r.name, r.pattern, r.replacement)
		if err != nil {
			return rules{}, err
		}
		headsignRules = append(headsignRules, rule)
	}

	var stopRules clean.RuleSet
	for _, r := range []struct{ name, pattern, replacement string }{
		{"station marker", `\b(station|stn)\b\.?`, ""},
		{"unloading marker", `\bunload(ing)?(\s+only)?\s*$`, ""},
		// The boundary captures are put back so neighbouring words stay apart.
		{"trademark", trademark, "${1}" + cfg.ShortName + "${3}"},
		{"compass suffix", `(^|\W)(east|west|north|south)(bound)?\s*$`, "${1}"},
	} {
		rule, err := clean.CompileRule(r.name, r.pattern, r.replacement)
		if err != nil {
			return rules{}, err
		}
		stopRules = append(stopRules, rule)
	}

	longNameRule, err := clean.CompileRule("trademark", trademark, "${1}${3}")
	if err != nil {
		return rules{}, err
	}
	abbreviation, err := clean.CompileRule("short name case", `\b`+regexp.QuoteMeta(cfg.ShortName)+`\b`, cfg.ShortName)
	if err != nil {
		return rules{}, err
	}

	return rules{
		tripHeadsign: clean.Pipeline{
			clean.StepFunc(clean.FoldShouting),
			headsignRules,
			clean.StepFunc(clean.KeepToRemoveVia),
			abbreviation,
			clean.StepFunc(clean.Label),
		},
		stopName: clean.Pipeline{
			clean.StepFunc(clean.FoldShouting),
			stopRules,
			clean.StepFunc(clean.StreetTypes),
			abbreviation,
			clean.StepFunc(clean.Label),
		},
		routeLongName: clean.Pipeline{
			longNameRule,
			clean.StepFunc(clean.Label),
		},
	}, nil
}
