package core

import (
	"fmt"

	"github.com/huangsam/codecritic/schema"
)

// Rule is a tagged text heuristic. Detect returns one Hit per finding; the
// rule's metadata supplies the finding type, severity and message.
type Rule struct {
	ID        string
	Type      string
	Severity  schema.Severity
	Message   string   // fmt template filled from Hit.Args
	Languages []string // empty means every language
	Detect    func(code string) []Hit
}

// Hit is a single rule match. Line is 1-based; zero means no line.
type Hit struct {
	Line int
	Args []any
}

// AppliesTo reports whether the rule runs for the given declared language.
func (r Rule) AppliesTo(language string) bool {
	if len(r.Languages) == 0 {
		return true
	}
	lang := schema.NormalizeLanguage(language)
	for _, l := range r.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// finding builds the Finding for one hit.
func (r Rule) finding(h Hit) schema.Finding {
	msg := r.Message
	if len(h.Args) > 0 {
		msg = fmt.Sprintf(r.Message, h.Args...)
	}
	f := schema.Finding{Type: r.Type, Message: msg, Severity: r.Severity}
	if h.Line > 0 {
		f.Line = schema.IntPtr(h.Line)
	}
	return f
}

// applyRules evaluates rules in declaration order.
func applyRules(rules []Rule, code, language string) []schema.Finding {
	findings := []schema.Finding{}
	for _, r := range rules {
		if !r.AppliesTo(language) {
			continue
		}
		for _, h := range r.Detect(code) {
			findings = append(findings, r.finding(h))
		}
	}
	return findings
}

// whenever adapts a predicate into a Detect func with a single line-less hit.
func whenever(pred func(code string) bool) func(string) []Hit {
	return func(code string) []Hit {
		if pred(code) {
			return []Hit{{}}
		}
		return nil
	}
}

var pythonOnly = []string{schema.PythonLanguage}
