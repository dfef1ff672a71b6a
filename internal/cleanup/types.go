package cleanup

import "time"

// Stats holds statistics about one cleanup run.
type Stats struct {
	RunID          string        // Unique run identifier
	Trigger        string        // Trigger label as received
	Plan           Plan          // Plan derived from the trigger
	FilesDeleted   int           // Files removed by sweeps
	ProfilesSwept  int           // Profiles visited
	DiscardDeleted int           // Files removed by the discard fallback
	Duration       time.Duration // Time taken for cleanup
}
