// Package validation holds the compliance rule catalog and the types rules
// report with.
package validation

import (
	"fmt"

	"github.com/five82/webmverify/internal/metadata"
)

// Status is the outcome of a single rule.
type Status int

const (
	// StatusPass means the file meets the rule.
	StatusPass Status = iota
	// StatusFail means the file does not meet the rule.
	StatusFail
	// StatusError means the metadata needed by the rule was missing or
	// unusable, so the rule is inconclusive.
	StatusError
)

// String returns the status as printed in reports.
func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusFail:
		return "fail"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText renders the status name in JSON and YAML reports.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Verdict is a rule outcome with a human-readable reason. Reason is empty for
// a plain pass.
type Verdict struct {
	Status Status `json:"status" yaml:"status"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Pass returns a passing verdict.
func Pass() Verdict {
	return Verdict{Status: StatusPass}
}

// Passf returns a passing verdict with a note.
func Passf(format string, args ...any) Verdict {
	return Verdict{Status: StatusPass, Reason: fmt.Sprintf(format, args...)}
}

// Fail returns a failing verdict.
func Fail(format string, args ...any) Verdict {
	return Verdict{Status: StatusFail, Reason: fmt.Sprintf(format, args...)}
}

// Errorf returns an inconclusive verdict.
func Errorf(format string, args ...any) Verdict {
	return Verdict{Status: StatusError, Reason: fmt.Sprintf(format, args...)}
}

// Rule is a named check over a metadata view. Check must be a pure read of
// the view.
type Rule struct {
	Name        string
	Description string
	Check       func(*metadata.View) Verdict
}

// Evaluate runs the rule. A panicking check yields an error verdict so one
// bad rule cannot abort the rest of the group.
func (r Rule) Evaluate(v *metadata.View) (verdict Verdict) {
	defer func() {
		if p := recover(); p != nil {
			verdict = Errorf("rule %s panicked: %v", r.Name, p)
		}
	}()
	return r.Check(v)
}

// Group is a named, ordered set of rules sharing a concern.
type Group struct {
	Name        string
	Description string
	Rules       []Rule
}

// RuleNames returns the names of the group's rules in order.
func (g Group) RuleNames() []string {
	names := make([]string, len(g.Rules))
	for i, r := range g.Rules {
		names[i] = r.Name
	}
	return names
}
