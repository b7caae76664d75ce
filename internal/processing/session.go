// Package processing runs rule groups against files and reports the results.
package processing

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/five82/webmverify/internal/errors"
	"github.com/five82/webmverify/internal/metadata"
	"github.com/five82/webmverify/internal/reporter"
	"github.com/five82/webmverify/internal/util"
	"github.com/five82/webmverify/internal/validation"
)

// Session verifies files with one provider and reporter.
type Session struct {
	provider metadata.Provider
	reporter reporter.Reporter
	logger   *slog.Logger
	jobs     int
}

// NewSession creates a session. A nil reporter or logger discards output.
// jobs bounds how many files are verified at once; 0 means one per CPU.
func NewSession(provider metadata.Provider, rep reporter.Reporter, logger *slog.Logger, jobs int) *Session {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return &Session{provider: provider, reporter: rep, logger: logger, jobs: jobs}
}

// Evaluate runs every rule of each group against v in declaration order.
// Every rule runs regardless of earlier verdicts.
func Evaluate(v *metadata.View, groups []validation.Group) []reporter.GroupReport {
	reports := make([]reporter.GroupReport, 0, len(groups))
	for _, g := range groups {
		gr := reporter.GroupReport{Name: g.Name, Results: make([]reporter.RuleResult, 0, len(g.Rules))}
		for _, r := range g.Rules {
			gr.Results = append(gr.Results, reporter.RuleResult{
				Rule:        r.Name,
				Description: r.Description,
				Verdict:     r.Evaluate(v),
			})
		}
		reports = append(reports, gr)
	}
	return reports
}

// Verify obtains the metadata of path once and evaluates groups against it.
//
// A tool or probe failure does not fail the call: the report comes back with
// Err set and no verdicts. The returned error is non-nil only when ctx is
// cancelled, in which case no report is produced.
func (s *Session) Verify(ctx context.Context, path string, groups []validation.Group) (*reporter.FileReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelledError(err)
	}

	start := time.Now()
	report := &reporter.FileReport{File: path}

	view, err := metadata.Load(ctx, s.provider, path)
	if err != nil {
		if errors.IsCancelled(err) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, errors.NewCancelledError(ctx.Err())
		}
		s.logger.Error("metadata retrieval failed", "file", path, "error", err)
		s.reporter.Error(reporter.ReporterError{
			Title:      "Could not read metadata",
			Message:    err.Error(),
			Context:    path,
			Suggestion: suggestionFor(err),
		})
		report.Err = err
		report.Groups = []reporter.GroupReport{}
		report.Elapsed = time.Since(start)
		return report, nil
	}

	s.logger.LogAttrs(ctx, slog.LevelDebug, "metadata", append([]slog.Attr{slog.String("file", path)}, view.Attrs()...)...)
	idx := view.Index()
	s.reporter.Verbose(fmt.Sprintf("%s: %d streams, video #%d, audio #%d, %s",
		util.GetFilename(path), view.StreamCount(), idx.Video, idx.Audio, view.Format("format_name")))

	report.Groups = Evaluate(view, groups)
	report.Elapsed = time.Since(start)

	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelledError(err)
	}

	c := report.Counts()
	s.logger.Info("verified", "file", path, "rules", c.Total(), "pass", c.Pass, "fail", c.Fail, "error", c.Error,
		"elapsed", report.Elapsed.Round(time.Millisecond))
	return report, nil
}

// suggestionFor returns a hint for a metadata retrieval failure.
func suggestionFor(err error) string {
	switch {
	case errors.IsKind(err, errors.KindCommand):
		return "Check that ffmpeg can decode the file; it may be truncated or not a WebM"
	case errors.IsKind(err, errors.KindJSONParse), errors.IsKind(err, errors.KindProbe):
		return "Run ffprobe on the file directly to inspect its output"
	default:
		return ""
	}
}

// VerifyFiles verifies paths with up to the session's job count in flight and
// emits reporter events. FileComplete events and the summary's reports follow
// input order. On cancellation the files not yet reported are abandoned and
// a KindCancelled error is returned with the partial summary.
func (s *Session) VerifyFiles(ctx context.Context, paths []string, groups []validation.Group) (reporter.BatchSummary, error) {
	start := time.Now()
	summary := reporter.BatchSummary{
		RunID:      uuid.NewString(),
		TotalFiles: len(paths),
		Files:      make([]*reporter.FileReport, 0, len(paths)),
	}

	groupNames := make([]string, len(groups))
	for i, g := range groups {
		groupNames[i] = g.Name
	}
	fileNames := make([]string, len(paths))
	for i, p := range paths {
		fileNames[i] = util.GetFilename(p)
	}

	s.logger.Info("starting verification", "run_id", summary.RunID, "files", len(paths), "groups", groupNames, "jobs", s.jobs)
	for _, g := range groups {
		s.logger.Debug("rule group", "group", g.Name, "rules", g.RuleNames())
	}
	s.reporter.BatchStarted(reporter.BatchStartInfo{
		RunID:      summary.RunID,
		TotalFiles: len(paths),
		FileList:   fileNames,
		Groups:     groupNames,
	})

	results := make([]*reporter.FileReport, len(paths))
	done := make([]chan struct{}, len(paths))
	for i := range done {
		done[i] = make(chan struct{})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)

	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, path := range paths {
			if gctx.Err() != nil {
				return
			}
			g.Go(func() error {
				defer close(done[i])
				s.reporter.FileStarted(reporter.FileProgressContext{
					CurrentFile: i + 1,
					TotalFiles:  len(paths),
					File:        path,
				})
				report, err := s.Verify(gctx, path, groups)
				if err != nil {
					return err
				}
				results[i] = report
				return nil
			})
		}
	}()

collect:
	for i := range paths {
		select {
		case <-done[i]:
		case <-gctx.Done():
			select {
			case <-done[i]:
			default:
				break collect
			}
		}
		if results[i] == nil {
			break collect
		}
		s.reporter.FileComplete(results[i])
		summary.Files = append(summary.Files, results[i])
	}

	<-launched
	waitErr := g.Wait()
	summary.Duration = time.Since(start)

	if ctx.Err() != nil || waitErr != nil {
		summary.Cancelled = true
		s.logger.Warn("verification cancelled", "run_id", summary.RunID,
			"verified", len(summary.Files), "total", len(paths))
		s.reporter.Warning(fmt.Sprintf("Verification cancelled after %d of %d files", len(summary.Files), len(paths)))
		cause := ctx.Err()
		if cause == nil {
			cause = waitErr
		}
		return summary, errors.NewCancelledError(cause)
	}

	s.reporter.BatchComplete(summary)
	return summary, nil
}
