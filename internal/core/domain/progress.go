package domain

// ConversionStatus is the coarse state reported to the upload UI.
type ConversionStatus string

const (
	ConversionStatusProcessing ConversionStatus = "processing"
	ConversionStatusDone       ConversionStatus = "done"
	ConversionStatusFailed     ConversionStatus = "failed"
)

// ConversionProgress is the poll payload for one document version.
type ConversionProgress struct {
	Status     ConversionStatus `json:"status"`
	Percentage int              `json:"percentage"`
}

// NotStartedProgress is returned when no progress record exists yet:
// the job is queued but a worker has not picked it up.
func NotStartedProgress() *ConversionProgress {
	return &ConversionProgress{Status: ConversionStatusProcessing, Percentage: 10}
}

// DegradedProgress is returned when the progress backend itself fails.
// The read path fails open rather than breaking the progress bar.
func DegradedProgress() *ConversionProgress {
	return &ConversionProgress{Status: ConversionStatusProcessing, Percentage: 5}
}
