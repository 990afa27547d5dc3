package repository

import (
	"context"
	"encoding/json"

	"yqms/internal/syncer"

	"go.uber.org/zap"
)

const (
	historyKeyPrefix  = "yqms:sync:history:"
	historyMaxEntries = 100
)

// SyncHistoryRepository keeps a bounded, most-recent-first list of run
// results per task for the history endpoint. Best-effort: losing history
// never affects the sync itself.
type SyncHistoryRepository interface {
	Append(ctx context.Context, res syncer.Result) error
	Recent(ctx context.Context, task string, limit int64) ([]syncer.Result, error)
}

func NewSyncHistoryRepository(r *Repository) SyncHistoryRepository {
	return &syncHistoryRepository{Repository: r}
}

type syncHistoryRepository struct {
	*Repository
}

func (h *syncHistoryRepository) Append(ctx context.Context, res syncer.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	key := historyKeyPrefix + res.Task
	pipe := h.rdb.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, historyMaxEntries-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (h *syncHistoryRepository) Recent(ctx context.Context, task string, limit int64) ([]syncer.Result, error) {
	if limit <= 0 || limit > historyMaxEntries {
		limit = 20
	}
	vals, err := h.rdb.LRange(ctx, historyKeyPrefix+task, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]syncer.Result, 0, len(vals))
	for _, v := range vals {
		var r syncer.Result
		if err := json.Unmarshal([]byte(v), &r); err != nil {
			h.logger.Warn("skipping malformed history entry", zap.String("task", task), zap.Error(err))
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
