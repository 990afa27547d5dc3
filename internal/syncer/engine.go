package syncer

import (
	"context"
	"fmt"
	"time"

	"yqms/pkg/hash"
	"yqms/pkg/log"

	"go.uber.org/zap"
)

const defaultBatchSize = 500

// Engine turns a batch of candidates into the minimum necessary set of store
// writes. Unchanged documents (same content hash as stored) produce no write
// at all, bounding write amplification and change-stream noise downstream.
type Engine struct {
	store     DocumentStore
	logger    *log.Logger
	batchSize int
	now       func() time.Time
}

func NewEngine(store DocumentStore, logger *log.Logger) *Engine {
	return &Engine{
		store:     store,
		logger:    logger,
		batchSize: defaultBatchSize,
		now:       time.Now,
	}
}

// DiffAndWrite diffs candidates against the stored window and issues chunked
// bulk upserts for the new/changed ones. When the task opts into sweeping,
// window documents absent from the candidate set are deleted afterwards.
// Stats accumulated before a write error are returned alongside the error.
func (e *Engine) DiffAndWrite(ctx context.Context, task *Task, candidates []Candidate) (WriteStats, error) {
	var stats WriteStats

	var since time.Time
	if task.Window > 0 {
		since = e.now().Add(-task.Window)
	}
	existing, err := e.store.FetchWindow(ctx, task.Collection, task.KeyFields, task.WindowField, since)
	if err != nil {
		return stats, fmt.Errorf("fetch existing window: %w", err)
	}

	index := make(map[string]ExistingDoc, len(existing))
	for _, doc := range existing {
		index[KeyString(doc.Key)] = doc
	}

	seen := make(map[string]struct{}, len(candidates))
	ops := make([]Upsert, 0, len(candidates))
	for _, cand := range candidates {
		ks := KeyString(cand.Key)
		seen[ks] = struct{}{}

		h, err := hash.CalculateResourceHash(cand.Fields)
		if err != nil {
			return stats, fmt.Errorf("hash candidate %s: %w", ks, err)
		}
		if old, ok := index[ks]; ok && old.Hash == h {
			stats.Skipped++
			continue
		}
		ops = append(ops, Upsert{Key: cand.Key, Fields: cand.Fields, Hash: h})
	}

	e.logger.Debug("diff computed",
		zap.String("task", task.Name),
		zap.Int("candidates", len(candidates)),
		zap.Int("existing", len(existing)),
		zap.Int("to_write", len(ops)),
		zap.Int64("unchanged", stats.Skipped))

	for start := 0; start < len(ops); start += e.batchSize {
		end := start + e.batchSize
		if end > len(ops) {
			end = len(ops)
		}
		res, err := e.store.BulkUpsert(ctx, task.Collection, ops[start:end])
		stats.Matched += res.Matched
		stats.Modified += res.Modified
		stats.Upserted += res.Upserted
		if err != nil {
			return stats, fmt.Errorf("bulk upsert: %w", err)
		}
	}

	if task.Sweep {
		stale := make([]map[string]interface{}, 0)
		for ks, doc := range index {
			if _, ok := seen[ks]; !ok {
				stale = append(stale, doc.Key)
			}
		}
		if len(stale) > 0 {
			deleted, err := e.store.DeleteByKeys(ctx, task.Collection, stale)
			stats.Deleted = deleted
			if err != nil {
				return stats, fmt.Errorf("sweep stale documents: %w", err)
			}
			e.logger.Info("swept stale documents",
				zap.String("task", task.Name),
				zap.Int64("deleted", deleted))
		}
	}

	return stats, nil
}
