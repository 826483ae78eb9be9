package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the state of a build run.
type RunStatus string

const (
	StatusPending   RunStatus = "pending"
	StatusReading   RunStatus = "reading"
	StatusParsing   RunStatus = "parsing"
	StatusCleaning  RunStatus = "cleaning"
	StatusMenu      RunStatus = "menu"
	StatusEmitting  RunStatus = "emitting"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// Run tracks the state of a single build.
type Run struct {
	mu sync.Mutex

	ID     string
	Source string

	Status   RunStatus
	Phase    string
	Progress Progress

	ContentHash string
	StartedAt   time.Time
	UpdatedAt   time.Time

	warnings []string
}

// Progress counts the records handled so far.
type Progress struct {
	RecordsTotal   int      `json:"records_total"`
	RecordsCleaned int      `json:"records_cleaned"`
	Warnings       []string `json:"warnings"`
}

// NewRun starts a pending run for the given source file.
func NewRun(source string) *Run {
	now := time.Now()
	return &Run{
		ID:        uuid.NewString(),
		Source:    source,
		Status:    StatusPending,
		Phase:     "pending",
		StartedAt: now,
		UpdatedAt: now,
	}
}

// SetStatus updates run status atomically.
func (r *Run) SetStatus(status RunStatus, phase string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = status
	r.Phase = phase
	r.UpdatedAt = time.Now()
}

// AddWarning records a recovered per-record problem.
func (r *Run) AddWarning(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
	r.Progress.Warnings = r.warnings
	r.UpdatedAt = time.Now()
}

// SetRecordsTotal records how many records will be cleaned.
func (r *Run) SetRecordsTotal(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Progress.RecordsTotal = n
	r.UpdatedAt = time.Now()
}

// IncrRecordsCleaned atomically increments the cleaned record count.
func (r *Run) IncrRecordsCleaned() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Progress.RecordsCleaned++
	r.UpdatedAt = time.Now()
}

// SetContentHash stores the SHA-256 of the source file.
func (r *Run) SetContentHash(hash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ContentHash = hash
}

// RunSnapshot is a read-only, JSON-safe copy of run state.
type RunSnapshot struct {
	ID          string    `json:"run_id"`
	Source      string    `json:"source"`
	Status      RunStatus `json:"status"`
	Phase       string    `json:"phase"`
	ContentHash string    `json:"content_hash,omitempty"`
	Progress    Progress  `json:"progress"`
	Elapsed     string    `json:"elapsed"`
}

// Snapshot returns a JSON-safe copy of the run state.
func (r *Run) Snapshot() RunSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	warnings := make([]string, len(r.warnings))
	copy(warnings, r.warnings)
	return RunSnapshot{
		ID:          r.ID,
		Source:      r.Source,
		Status:      r.Status,
		Phase:       r.Phase,
		ContentHash: r.ContentHash,
		Progress: Progress{
			RecordsTotal:   r.Progress.RecordsTotal,
			RecordsCleaned: r.Progress.RecordsCleaned,
			Warnings:       warnings,
		},
		Elapsed: r.UpdatedAt.Sub(r.StartedAt).String(),
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
