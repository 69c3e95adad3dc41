package pipeline

// RunStats tracks aggregate counters and byte totals across a batch run.
// Byte totals cover files that produced output only.
type RunStats struct {
	Total     int
	Current   int
	Converted int // Convert: files written. Responsive: images with at least one variant.
	Skipped   int
	Failed    int
	Variants  int // Responsive variants written.

	TotalInputBytes  int64
	TotalOutputBytes int64

	FilesChanged int // Refs: files rewritten (or that would be, in preview).
	RefsUpdated  int

	Cancelled bool // The confirmation prompt was declined.
}

// SpaceSaved returns the aggregate byte difference between inputs and outputs.
// Positive means outputs are smaller; negative means they grew.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}

// Add folds o's counters into s. Used by watch mode to keep a running total.
func (s *RunStats) Add(o RunStats) {
	s.Total += o.Total
	s.Converted += o.Converted
	s.Skipped += o.Skipped
	s.Failed += o.Failed
	s.Variants += o.Variants
	s.TotalInputBytes += o.TotalInputBytes
	s.TotalOutputBytes += o.TotalOutputBytes
	s.FilesChanged += o.FilesChanged
	s.RefsUpdated += o.RefsUpdated
}
