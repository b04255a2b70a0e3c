package pipeline

import "time"

// RunStats tracks the counters reported at the end of a build.
type RunStats struct {
	Questions        int
	Solutions        int
	Sections         int
	Skipped          int
	RichRows         int
	RichMatched      int
	OverrideRows     int
	OverridesApplied int
	Mismatched       int
	Defaulted        int

	Digest       string
	BytesWritten int64
	Elapsed      time.Duration
}

func statsFrom(res *Result) RunStats {
	return RunStats{
		Questions:        len(res.Questions),
		Solutions:        len(res.Catalog.Solutions),
		Sections:         len(res.Catalog.BySection),
		Skipped:          len(res.Catalog.Skipped),
		RichRows:         len(res.Rich.Rows),
		RichMatched:      res.Merge.Matched,
		OverrideRows:     len(res.Overrides),
		OverridesApplied: res.Override.Applied,
		Mismatched:       len(res.Override.Mismatched),
		Defaulted:        res.Defaulted,
	}
}
