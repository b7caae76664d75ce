package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/schollz/progressbar/v3"

	"github.com/five82/webmverify/internal/util"
	"github.com/five82/webmverify/internal/validation"
)

// TerminalOptions configures a TerminalReporter.
type TerminalOptions struct {
	Out      io.Writer // results, defaults to stdout
	Err      io.Writer // errors and the progress bar, defaults to stderr
	Color    bool
	Progress bool // show a batch progress bar
	Verbose  bool
}

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu       sync.Mutex
	out      io.Writer
	errOut   io.Writer
	showBar  bool
	verbose  bool
	progress *progressbar.ProgressBar
	cyan     *color.Color
	green    *color.Color
	pass     *color.Color
	yellow   *color.Color
	red      *color.Color
	faint    *color.Color
	bold     *color.Color
}

// NewTerminalReporter creates a new terminal reporter.
func NewTerminalReporter(opts TerminalOptions) *TerminalReporter {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	r := &TerminalReporter{
		out:     opts.Out,
		errOut:  opts.Err,
		showBar: opts.Progress,
		verbose: opts.Verbose,
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		pass:    color.New(color.FgGreen, color.Bold),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		faint:   color.New(color.Faint),
		bold:    color.New(color.Bold),
	}
	if !opts.Color {
		for _, c := range r.palette() {
			c.DisableColor()
		}
	} else {
		for _, c := range r.palette() {
			c.EnableColor()
		}
	}
	return r
}

func (r *TerminalReporter) palette() []*color.Color {
	return []*color.Color{r.cyan, r.green, r.pass, r.yellow, r.red, r.faint, r.bold}
}

// clearProgress hides the bar so result lines are not interleaved with it.
// Callers hold r.mu.
func (r *TerminalReporter) clearProgress() {
	if r.progress != nil {
		_ = r.progress.Clear()
	}
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info.TotalFiles > 1 {
		fmt.Fprintln(r.out)
		_, _ = r.cyan.Fprintln(r.out, "BATCH")
		fmt.Fprintf(r.out, "  Verifying %d files (groups: %s)\n", info.TotalFiles, strings.Join(info.Groups, ", "))
		for i, name := range info.FileList {
			fmt.Fprintf(r.out, "  %d. %s\n", i+1, name)
		}
	}

	if r.showBar && info.TotalFiles > 1 {
		r.progress = progressbar.NewOptions(
			info.TotalFiles,
			progressbar.OptionSetDescription(""),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetWriter(r.errOut),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionShowCount(),
			progressbar.OptionShowDescriptionAtLineEnd(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "Verifying [",
				BarEnd:        "]",
			}),
		)
	}
}

func (r *TerminalReporter) FileStarted(context FileProgressContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		r.progress.Describe(util.GetFilename(context.File))
	}
}

func (r *TerminalReporter) FileComplete(report *FileReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearProgress()

	fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintf(r.out, "FILE %s\n", report.File)

	if report.Err != nil {
		fmt.Fprintf(r.out, "  %s %s\n", r.yellow.Sprint("inconclusive:"), report.Err)
	}

	for _, g := range report.Groups {
		fmt.Fprintf(r.out, "  %s\n", r.bold.Sprint(strings.ToUpper(g.Name)))

		maxLen := 0
		for _, res := range g.Results {
			maxLen = max(maxLen, len(res.Rule))
		}
		for _, res := range g.Results {
			paddedName := fmt.Sprintf("%-*s", maxLen, res.Rule)
			detail := res.Description
			if res.Verdict.Reason != "" && res.Verdict.Status != validation.StatusPass {
				detail = res.Verdict.Reason
			}
			fmt.Fprintf(r.out, "    %s %s  %s\n", r.statusMark(res.Verdict.Status), paddedName, r.faint.Sprint(detail))
		}
	}

	c := report.Counts()
	var verdict string
	switch {
	case report.Passed():
		verdict = r.pass.Sprint("PASS")
	case report.Inconclusive():
		verdict = r.yellow.Sprint("INCONCLUSIVE")
	default:
		verdict = r.red.Sprint("FAIL")
	}
	fmt.Fprintf(r.out, "  %s %d of %d rules passed, %d failed, %d errors (%s)\n",
		verdict, c.Pass, c.Total(), c.Fail, c.Error, util.FormatElapsed(report.Elapsed))

	if r.progress != nil {
		_ = r.progress.Add(1)
	}
}

func (r *TerminalReporter) statusMark(s validation.Status) string {
	switch s {
	case validation.StatusPass:
		return r.green.Sprint("✓")
	case validation.StatusFail:
		return r.red.Sprint("✗")
	default:
		return r.yellow.Sprint("!")
	}
}

func (r *TerminalReporter) Warning(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearProgress()
	fmt.Fprintln(r.errOut)
	_, _ = r.yellow.Fprintf(r.errOut, "WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearProgress()
	_, _ = fmt.Fprintln(r.errOut)
	_, _ = r.red.Fprintf(r.errOut, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(r.errOut, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(r.errOut, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(r.errOut, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) Verbose(message string) {
	if !r.verbose {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearProgress()
	fmt.Fprintf(r.errOut, "  %s\n", r.faint.Sprint(message))
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}

	if summary.TotalFiles < 2 {
		return
	}

	fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, "SUMMARY")
	fmt.Fprintln(r.out, indent(summaryTable(summary), "  "))

	passed := summary.PassedCount()
	status := r.green.Sprintf("%d of %d %s passed", passed, summary.TotalFiles, util.Plural(summary.TotalFiles, "file", "files"))
	if passed != summary.TotalFiles {
		status = r.red.Sprintf("%d of %d %s passed", passed, summary.TotalFiles, util.Plural(summary.TotalFiles, "file", "files"))
	}
	fmt.Fprintf(r.out, "  %s\n", status)
	fmt.Fprintf(r.out, "  Time: %s\n", util.FormatElapsed(summary.Duration))
	fmt.Fprintf(r.out, "  %s\n", r.faint.Sprintf("Run %s", summary.RunID))
}

// summaryTable renders one row per verified file.
func summaryTable(summary BatchSummary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Pass", "Fail", "Error", "Result"})

	for _, f := range summary.Files {
		c := f.Counts()
		result := "pass"
		switch {
		case c.Fail > 0:
			result = "fail"
		case !f.Passed():
			result = "inconclusive"
		}
		tw.AppendRow(table.Row{util.GetFilename(f.File), c.Pass, c.Fail, c.Error, result})
	}

	total := summary.Counts()
	tw.AppendFooter(table.Row{"Total", total.Pass, total.Fail, total.Error, ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
