package syncer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

// SourceRecord is one row produced by a task fetch. It exists only for the
// duration of a run; the concrete type is owned by the task definition.
type SourceRecord interface{}

// Candidate is a transformed document ready for diffing. Key holds the
// natural-key fields (unique within the target collection), Fields the full
// business payload. Key values should be strings so that keys survive a
// round trip through the document store unchanged.
type Candidate struct {
	Key    map[string]interface{}
	Fields map[string]interface{}
}

// Task is a named, idempotent unit of sync work bound to one source pool and
// one target collection. Tasks are registered once at startup and never
// mutated afterwards.
type Task struct {
	Name       string
	Source     string
	Collection string

	// KeyFields name the natural-key fields inside Candidate.Key.
	KeyFields []string

	// WindowField/Window bound the existing-document fetch to a recent
	// slice so diffing never loads the whole collection. Zero Window
	// means the task's fetch covers the full key scope.
	WindowField string
	Window      time.Duration

	// Cadence is the scheduled period; zero means manual-only.
	Cadence time.Duration

	// Transient-error retry profile for the fetch step.
	MaxRetries  int
	RetryBase   time.Duration
	RetryJitter time.Duration

	// Sweep deletes window documents absent from the fresh candidate set.
	// Only safe when Fetch is known-complete for the key scope.
	Sweep bool

	Fetch     func(ctx context.Context, db *gorm.DB) ([]SourceRecord, error)
	Transform func(rec SourceRecord) (*Candidate, error)
}

// KeyString renders a natural key as a canonical string, independent of map
// iteration order, for use as an index key during diffing.
func KeyString(key map[string]interface{}) string {
	names := make([]string, 0, len(key))
	for k := range key {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, k := range names {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%s=%v", k, key[k])
	}
	return b.String()
}
