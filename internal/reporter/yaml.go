package reporter

import (
	"fmt"
	"io"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// YAMLReporter writes one YAML document describing the whole batch when it
// completes. Warnings and errors go to a separate writer so the document
// stays parseable.
type YAMLReporter struct {
	writer io.Writer
	errOut io.Writer
	mu     sync.Mutex
}

// NewYAMLReporterWithWriters creates a YAML reporter with custom writers.
func NewYAMLReporterWithWriters(w, errOut io.Writer) *YAMLReporter {
	return &YAMLReporter{writer: w, errOut: errOut}
}

type yamlFile struct {
	File    string        `yaml:"file"`
	Passed  bool          `yaml:"passed"`
	Error   string        `yaml:"error,omitempty"`
	Counts  Counts        `yaml:"counts"`
	Groups  []GroupReport `yaml:"groups,omitempty"`
	Elapsed string        `yaml:"elapsed"`
}

type yamlBatch struct {
	RunID     string     `yaml:"run_id"`
	Passed    bool       `yaml:"passed"`
	Cancelled bool       `yaml:"cancelled,omitempty"`
	Total     int        `yaml:"total_files"`
	Counts    Counts     `yaml:"counts"`
	Duration  string     `yaml:"duration"`
	Files     []yamlFile `yaml:"files"`
}

// document converts a batch summary to the YAML report layout.
func (r *YAMLReporter) document(summary BatchSummary) yamlBatch {
	doc := yamlBatch{
		RunID:     summary.RunID,
		Passed:    summary.Passed(),
		Cancelled: summary.Cancelled,
		Total:     summary.TotalFiles,
		Counts:    summary.Counts(),
		Duration:  summary.Duration.Round(time.Millisecond).String(),
		Files:     make([]yamlFile, 0, len(summary.Files)),
	}
	for _, f := range summary.Files {
		doc.Files = append(doc.Files, yamlFile{
			File:    f.File,
			Passed:  f.Passed(),
			Error:   f.ErrorMessage(),
			Counts:  f.Counts(),
			Groups:  f.Groups,
			Elapsed: f.Elapsed.Round(time.Millisecond).String(),
		})
	}
	return doc
}

func (r *YAMLReporter) BatchStarted(BatchStartInfo)     {}
func (r *YAMLReporter) FileStarted(FileProgressContext) {}
func (r *YAMLReporter) FileComplete(*FileReport)        {}
func (r *YAMLReporter) Verbose(string)                  {}

func (r *YAMLReporter) Warning(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.errOut, "WARN: %s\n", message)
}

func (r *YAMLReporter) Error(err ReporterError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.errOut, "ERROR %s: %s\n", err.Title, err.Message)
}

func (r *YAMLReporter) BatchComplete(summary BatchSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	enc := yaml.NewEncoder(r.writer)
	enc.SetIndent(2)
	if err := enc.Encode(r.document(summary)); err != nil {
		_, _ = fmt.Fprintf(r.errOut, "ERROR writing YAML report: %v\n", err)
		return
	}
	_ = enc.Close()
}
