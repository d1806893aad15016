package clean

import (
	"fmt"
	"regexp"
)

// Step is one stage of a cleaning pipeline.
type Step interface {
	Apply(s string) string
}

// StepFunc adapts a plain function to a Step.
type StepFunc func(string) string

func (f StepFunc) Apply(s string) string {
	return f(s)
}

// Rule replaces every match of Pattern with Replacement.
//
// Replacement may refer to capture groups using the regexp package's ${n} syntax.
type Rule struct {
	// Name says what the rule removes or rewrites. It is used in diagnostics only.
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// NewRule compiles a case-insensitive rule. It panics if the pattern is invalid.
func NewRule(name, pattern, replacement string) Rule {
	return Rule{
		Name:        name,
		Pattern:     regexp.MustCompile("(?i)" + pattern),
		Replacement: replacement,
	}
}

// CompileRule is like NewRule but returns an error for an invalid pattern.
func CompileRule(name, pattern, replacement string) (Rule, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", name, err)
	}
	return Rule{Name: name, Pattern: re, Replacement: replacement}, nil
}

func (r Rule) Apply(s string) string {
	return r.Pattern.ReplaceAllString(s, r.Replacement)
}

func (r Rule) String() string {
	return fmt.Sprintf("%s: %s -> %q", r.Name, r.Pattern, r.Replacement)
}

// RuleSet is an ordered list of rules. Each rule sees the output of the previous one.
type RuleSet []Rule

func (rs RuleSet) Apply(s string) string {
	for _, r := range rs {
		s = r.Apply(s)
	}
	return s
}

// Pipeline is an ordered list of steps.
type Pipeline []Step

func (p Pipeline) Apply(s string) string {
	for _, step := range p {
		s = step.Apply(s)
	}
	return s
}
