package repository

import (
	"context"
	"time"

	"yqms/internal/syncer"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func NewDocumentStore(r *Repository) syncer.DocumentStore {
	return &documentStore{Repository: r}
}

type documentStore struct {
	*Repository
}

func (s *documentStore) FetchWindow(ctx context.Context, collection string, keyFields []string, windowField string, since time.Time) ([]syncer.ExistingDoc, error) {
	filter := bson.M{}
	if windowField != "" && !since.IsZero() {
		filter[windowField] = bson.M{"$gte": since}
	}
	// Project only key fields plus the stored content hash; the diff never
	// needs full payloads.
	proj := bson.M{"_id": 0, "resourceHash": 1}
	for _, f := range keyFields {
		proj[f] = 1
	}

	cur, err := s.mdb.Collection(collection).Find(ctx, filter, options.Find().SetProjection(proj))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []syncer.ExistingDoc
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		key := make(map[string]interface{}, len(keyFields))
		for _, f := range keyFields {
			key[f] = raw[f]
		}
		doc := syncer.ExistingDoc{Key: key}
		if h, ok := raw["resourceHash"].(string); ok {
			doc.Hash = h
		}
		out = append(out, doc)
	}
	return out, cur.Err()
}

func (s *documentStore) BulkUpsert(ctx context.Context, collection string, ops []syncer.Upsert) (syncer.BulkResult, error) {
	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(ops))
	for _, op := range ops {
		set := bson.M{}
		for k, v := range op.Fields {
			set[k] = v
		}
		for k, v := range op.Key {
			set[k] = v
		}
		set["resourceHash"] = op.Hash
		set["updatedAt"] = now

		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M(op.Key)).
			SetUpdate(bson.M{
				"$set":         set,
				"$setOnInsert": bson.M{"createdAt": now},
			}).
			SetUpsert(true))
	}

	var out syncer.BulkResult
	res, err := s.mdb.Collection(collection).BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if res != nil {
		out.Matched = res.MatchedCount
		out.Modified = res.ModifiedCount
		out.Upserted = res.UpsertedCount
	}
	return out, err
}

func (s *documentStore) DeleteByKeys(ctx context.Context, collection string, keys []map[string]interface{}) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	or := make([]bson.M, 0, len(keys))
	for _, key := range keys {
		or = append(or, bson.M(key))
	}
	res, err := s.mdb.Collection(collection).DeleteMany(ctx, bson.M{"$or": or})
	if res == nil {
		return 0, err
	}
	return res.DeletedCount, err
}
