package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// JSONReporter outputs NDJSON events, one object per line.
type JSONReporter struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.write(map[string]any{
		"type":        "batch_started",
		"run_id":      info.RunID,
		"total_files": info.TotalFiles,
		"file_list":   info.FileList,
		"groups":      info.Groups,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) FileStarted(context FileProgressContext) {
	r.write(map[string]any{
		"type":         "file_started",
		"current_file": context.CurrentFile,
		"total_files":  context.TotalFiles,
		"file":         context.File,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) FileComplete(report *FileReport) {
	event := map[string]any{
		"type":       "file_complete",
		"file":       report.File,
		"passed":     report.Passed(),
		"counts":     report.Counts(),
		"groups":     report.Groups,
		"elapsed_ms": report.Elapsed.Milliseconds(),
		"timestamp":  r.timestamp(),
	}
	if report.Err != nil {
		event["error"] = report.Err.Error()
	}
	r.write(event)
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]any{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]any{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	r.write(map[string]any{
		"type":         "batch_complete",
		"run_id":       summary.RunID,
		"total_files":  summary.TotalFiles,
		"verified":     len(summary.Files),
		"passed_files": summary.PassedCount(),
		"counts":       summary.Counts(),
		"passed":       summary.Passed(),
		"cancelled":    summary.Cancelled,
		"duration_ms":  summary.Duration.Milliseconds(),
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) Verbose(message string) {
	r.write(map[string]any{
		"type":      "verbose",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}
