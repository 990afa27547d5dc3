package syncer

import (
	"context"
	"time"
)

// ExistingDoc is the projection of an already-stored document used for
// diffing: its natural key and the content hash written by a previous run.
type ExistingDoc struct {
	Key  map[string]interface{}
	Hash string
}

// Upsert is one pending write, keyed by natural key. Re-issuing the same
// upsert is always safe; the key doubles as the idempotency key.
type Upsert struct {
	Key    map[string]interface{}
	Fields map[string]interface{}
	Hash   string
}

// BulkResult reports what the store actually did for one batch. On partial
// batch failure the counts cover the writes that succeeded.
type BulkResult struct {
	Matched  int64
	Modified int64
	Upserted int64
}

// DocumentStore is the engine's view of the target document store.
type DocumentStore interface {
	// FetchWindow returns key+hash projections of stored documents,
	// filtered to windowField >= since when since is non-zero.
	FetchWindow(ctx context.Context, collection string, keyFields []string, windowField string, since time.Time) ([]ExistingDoc, error)
	// BulkUpsert issues ops as one unordered batch.
	BulkUpsert(ctx context.Context, collection string, ops []Upsert) (BulkResult, error)
	// DeleteByKeys removes the documents matching the given natural keys.
	DeleteByKeys(ctx context.Context, collection string, keys []map[string]interface{}) (int64, error)
}
