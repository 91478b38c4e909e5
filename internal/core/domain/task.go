package domain

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// GenerateID creates a unique random ID.
func GenerateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// TaskKind identifies a conversion task.
type TaskKind string

const (
	// TaskKindKeynoteToPDF converts Keynote decks to PDF.
	TaskKindKeynoteToPDF TaskKind = "convert_keynote"
	// TaskKindOfficeToPDF converts generic Office documents to PDF.
	TaskKindOfficeToPDF TaskKind = "convert_office"
	// TaskKindCADToPDF converts CAD drawings to PDF.
	TaskKindCADToPDF TaskKind = "convert_cad"
	// TaskKindVideoOptimize transcodes non-MP4 video for playback.
	TaskKindVideoOptimize TaskKind = "optimize_video"
	// TaskKindPDFToImage rasterizes PDF pages for the viewer.
	TaskKindPDFToImage TaskKind = "paginate_pdf"
)

// taskSuffixes are the per-purpose idempotency-key suffixes. Two
// triggers for the same version and purpose must produce the same key.
var taskSuffixes = map[TaskKind]string{
	TaskKindKeynoteToPDF:  "keynote",
	TaskKindOfficeToPDF:   "docs",
	TaskKindCADToPDF:      "cad",
	TaskKindVideoOptimize: "video",
	TaskKindPDFToImage:    "paginate",
}

// Suffix returns the idempotency-key suffix for a task kind.
func (k TaskKind) Suffix() string {
	if s, ok := taskSuffixes[k]; ok {
		return s
	}
	return string(k)
}

// TaskStatus represents the current state of a queued task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// ConversionTask is the queue record for one conversion job.
type ConversionTask struct {
	// ID is the unique identifier for this task
	ID string `json:"id"`

	// Kind identifies what kind of conversion this is
	Kind TaskKind `json:"kind"`

	// TeamID, DocumentID and DocumentVersionID tag the task for
	// observability and key construction
	TeamID            string `json:"team_id"`
	DocumentID        string `json:"document_id"`
	DocumentVersionID string `json:"document_version_id"`

	// Payload carries task-specific fields
	// For optimize_video: {"videoUrl": ..., "fileSize": ...}
	Payload map[string]string `json:"payload,omitempty"`

	// Status is the current state of the task
	Status TaskStatus `json:"status"`

	// Attempts is how many times this task has been attempted
	Attempts int `json:"attempts"`

	// MaxAttempts is the maximum retry count before giving up
	MaxAttempts int `json:"max_attempts"`

	// Error contains the last error message if failed
	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// StartedAt is when processing began (nil if not started)
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when processing finished (nil if not complete)
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewConversionTask creates a task with default values.
func NewConversionTask(kind TaskKind, teamID, documentID, versionID string, payload map[string]string) *ConversionTask {
	now := time.Now()
	return &ConversionTask{
		ID:                GenerateID(),
		Kind:              kind,
		TeamID:            teamID,
		DocumentID:        documentID,
		DocumentVersionID: versionID,
		Payload:           payload,
		Status:            TaskStatusPending,
		MaxAttempts:       3,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// IdempotencyKey is the deterministic key that collapses repeated
// triggers for the same version and purpose into one job.
func (t *ConversionTask) IdempotencyKey() string {
	return fmt.Sprintf("%s-%s-%s", t.TeamID, t.DocumentVersionID, t.Kind.Suffix())
}

// Tags returns the observability tag set for this task.
func (t *ConversionTask) Tags() []string {
	return []string{
		"team_" + t.TeamID,
		"document_" + t.DocumentID,
		"version:" + t.DocumentVersionID,
	}
}

// CanRetry returns true if the task can be retried.
func (t *ConversionTask) CanRetry() bool {
	return t.Attempts < t.MaxAttempts
}

// MarkProcessing updates the task to processing state.
func (t *ConversionTask) MarkProcessing() {
	now := time.Now()
	t.Status = TaskStatusProcessing
	t.StartedAt = &now
	t.UpdatedAt = now
	t.Attempts++
}

// MarkCompleted updates the task to completed state.
func (t *ConversionTask) MarkCompleted() {
	now := time.Now()
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.Error = ""
}

// MarkFailed updates the task to failed state.
func (t *ConversionTask) MarkFailed(err string) {
	t.Status = TaskStatusFailed
	t.UpdatedAt = time.Now()
	t.Error = err
}

// Retry resets the task for another attempt.
func (t *ConversionTask) Retry(err string) {
	t.Status = TaskStatusPending
	t.UpdatedAt = time.Now()
	t.Error = err
}
