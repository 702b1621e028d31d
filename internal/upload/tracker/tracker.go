// Package tracker keeps per-upload task state for the lifetime of the
// process. The store is shared between the background processing goroutines
// (writers) and the status handlers (readers), so every access goes through
// a mutex and queries return snapshots by value.
package tracker

import (
	"sort"
	"sync"
	"time"

	"github.com/mlukasik/swift-registry/internal/upload/batch"
)

// Status of an upload task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ValidStatus reports whether s names a known task status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Task is one tracked CSV-ingestion job.
type Task struct {
	ID           string                  `json:"id"`
	Filename     string                  `json:"filename"`
	Status       Status                  `json:"status"`
	Message      string                  `json:"message"`
	CreatedAt    time.Time               `json:"created_at"`
	TotalRecords int                     `json:"total_records"`
	Processed    int                     `json:"processed"`
	Skipped      int                     `json:"skipped"`
	Failed       int                     `json:"failed"`
	ErrorDetails []batch.SubmissionError `json:"error_details"`
}

// Stats aggregates all tracked tasks.
type Stats struct {
	TotalUploads      int        `json:"total_uploads"`
	SuccessfulUploads int        `json:"successful_uploads"`
	FailedUploads     int        `json:"failed_uploads"`
	ProcessingUploads int        `json:"processing_uploads"`
	RecordsProcessed  int        `json:"records_processed"`
	MostRecentUpload  *time.Time `json:"most_recent_upload"`
}

// Store holds upload tasks keyed by id. Capacity is bounded: when full, the
// oldest terminal tasks are evicted to make room for new uploads.
type Store struct {
	mu       sync.RWMutex
	tasks    map[string]*Task
	maxTasks int
}

// NewStore creates a task store holding at most maxTasks entries.
func NewStore(maxTasks int) *Store {
	if maxTasks <= 0 {
		maxTasks = 1000
	}
	return &Store{tasks: make(map[string]*Task), maxTasks: maxTasks}
}

// Create registers a new pending task and returns its snapshot.
func (s *Store) Create(id, filename string) Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tasks) >= s.maxTasks {
		s.evictLocked()
	}

	task := &Task{
		ID:           id,
		Filename:     filename,
		Status:       StatusPending,
		Message:      "Upload received. Processing will begin shortly.",
		CreatedAt:    time.Now(),
		ErrorDetails: []batch.SubmissionError{},
	}
	s.tasks[id] = task
	return *task
}

// MarkProcessing transitions a task into the processing state.
func (s *Store) MarkProcessing(id, message string) bool {
	return s.update(id, func(t *Task) {
		t.Status = StatusProcessing
		t.Message = message
	})
}

// SetTotal records how many records the pipeline parsed out of the file.
func (s *Store) SetTotal(id string, total int, message string) bool {
	return s.update(id, func(t *Task) {
		t.TotalRecords = total
		t.Message = message
	})
}

// Complete records a finished batch. A batch with per-record failures still
// completes; only pipeline-level errors fail a task.
func (s *Store) Complete(id string, res *batch.Result) bool {
	return s.update(id, func(t *Task) {
		t.Status = StatusCompleted
		t.Processed = res.Successful
		t.Skipped = res.Skipped
		t.Failed = res.Failed
		t.ErrorDetails = res.Errors
		t.Message = res.Message()
	})
}

// Fail marks a task as failed with the pipeline-level error message.
func (s *Store) Fail(id, message string) bool {
	return s.update(id, func(t *Task) {
		t.Status = StatusFailed
		t.Message = message
	})
}

// Get returns a snapshot of the task with the given id.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *task, true
}

// List returns task snapshots newest-first, optionally filtered by status.
// status == "" means no filter.
func (s *Store) List(status Status, limit, skip int) []Task {
	s.mu.RLock()
	all := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if status != "" && t.Status != status {
			continue
		}
		all = append(all, *t)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if skip >= len(all) {
		return []Task{}
	}
	all = all[skip:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}

// Stats aggregates counters across every tracked task.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats Stats
	var mostRecent time.Time
	for _, t := range s.tasks {
		stats.TotalUploads++
		switch t.Status {
		case StatusCompleted:
			stats.SuccessfulUploads++
		case StatusFailed:
			stats.FailedUploads++
		default:
			stats.ProcessingUploads++
		}
		stats.RecordsProcessed += t.Processed
		if t.CreatedAt.After(mostRecent) {
			mostRecent = t.CreatedAt
		}
	}
	if !mostRecent.IsZero() {
		stats.MostRecentUpload = &mostRecent
	}
	return stats
}

func (s *Store) update(id string, fn func(*Task)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return false
	}
	fn(task)
	return true
}

// evictLocked removes the oldest terminal task. In-flight tasks are never
// evicted; if every task is still running the store grows past its bound
// rather than losing live state.
func (s *Store) evictLocked() {
	var oldest *Task
	for _, t := range s.tasks {
		if t.Status != StatusCompleted && t.Status != StatusFailed {
			continue
		}
		if oldest == nil || t.CreatedAt.Before(oldest.CreatedAt) {
			oldest = t
		}
	}
	if oldest != nil {
		delete(s.tasks, oldest.ID)
	}
}
