// Package reporter provides verification report types and the interfaces
// and implementations that present them.
package reporter

import (
	"time"

	"github.com/five82/webmverify/internal/validation"
)

// RuleResult is the verdict of one rule for one file.
type RuleResult struct {
	Rule        string             `json:"rule" yaml:"rule"`
	Description string             `json:"description" yaml:"description"`
	Verdict     validation.Verdict `json:"verdict" yaml:"verdict"`
}

// GroupReport holds the verdicts of one rule group in declaration order.
type GroupReport struct {
	Name    string       `json:"name" yaml:"name"`
	Results []RuleResult `json:"results" yaml:"results"`
}

// Counts tallies verdicts by status.
type Counts struct {
	Pass  int `json:"pass" yaml:"pass"`
	Fail  int `json:"fail" yaml:"fail"`
	Error int `json:"error" yaml:"error"`
}

// Add returns the sum of two tallies.
func (c Counts) Add(o Counts) Counts {
	return Counts{Pass: c.Pass + o.Pass, Fail: c.Fail + o.Fail, Error: c.Error + o.Error}
}

// Total returns the number of verdicts counted.
func (c Counts) Total() int {
	return c.Pass + c.Fail + c.Error
}

// FileReport is the outcome of verifying one file. Err is set when the
// metadata could not be obtained, in which case Groups is empty and the file
// is inconclusive.
type FileReport struct {
	File    string        `json:"file" yaml:"file"`
	Groups  []GroupReport `json:"groups" yaml:"groups"`
	Err     error         `json:"-" yaml:"-"`
	Elapsed time.Duration `json:"-" yaml:"-"`
}

// ErrorMessage returns the retrieval error text, or "".
func (r *FileReport) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Counts tallies the verdicts in the report.
func (r *FileReport) Counts() Counts {
	var c Counts
	for _, g := range r.Groups {
		for _, res := range g.Results {
			switch res.Verdict.Status {
			case validation.StatusPass:
				c.Pass++
			case validation.StatusFail:
				c.Fail++
			default:
				c.Error++
			}
		}
	}
	return c
}

// Passed reports whether the file was verified and every rule passed.
func (r *FileReport) Passed() bool {
	c := r.Counts()
	return r.Err == nil && c.Fail == 0 && c.Error == 0
}

// Inconclusive reports whether any rule errored or retrieval failed, with no
// compliance failure to report instead.
func (r *FileReport) Inconclusive() bool {
	c := r.Counts()
	return c.Fail == 0 && (r.Err != nil || c.Error > 0)
}

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	RunID      string
	TotalFiles int
	FileList   []string
	Groups     []string
}

// FileProgressContext identifies the file a worker has started.
type FileProgressContext struct {
	CurrentFile int
	TotalFiles  int
	File        string
}

// BatchSummary contains batch completion information. Files holds the
// reports in input order; files abandoned by cancellation are absent.
type BatchSummary struct {
	RunID      string
	TotalFiles int
	Files      []*FileReport
	Duration   time.Duration
	Cancelled  bool
}

// PassedCount returns the number of files that passed every rule.
func (s BatchSummary) PassedCount() int {
	n := 0
	for _, f := range s.Files {
		if f.Passed() {
			n++
		}
	}
	return n
}

// Counts tallies every verdict in the batch.
func (s BatchSummary) Counts() Counts {
	var c Counts
	for _, f := range s.Files {
		c = c.Add(f.Counts())
	}
	return c
}

// Passed reports whether every requested file was verified and passed.
func (s BatchSummary) Passed() bool {
	return !s.Cancelled && len(s.Files) == s.TotalFiles && s.PassedCount() == s.TotalFiles
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}
