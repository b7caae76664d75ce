package reporter

// Reporter receives verification events. Implementations must be safe for
// concurrent use: FileStarted may arrive from several workers at once.
// FileComplete is delivered in input order.
type Reporter interface {
	BatchStarted(info BatchStartInfo)
	FileStarted(context FileProgressContext)
	FileComplete(report *FileReport)
	Warning(message string)
	Error(err ReporterError)
	BatchComplete(summary BatchSummary)
	Verbose(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) BatchStarted(BatchStartInfo)     {}
func (NullReporter) FileStarted(FileProgressContext) {}
func (NullReporter) FileComplete(*FileReport)        {}
func (NullReporter) Warning(string)                  {}
func (NullReporter) Error(ReporterError)             {}
func (NullReporter) BatchComplete(BatchSummary)      {}
func (NullReporter) Verbose(string)                  {}
