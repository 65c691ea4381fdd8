package qdrantDB

import (
	"context"
	"time"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/qdrant/go-client/qdrant"
)

func initCacheCollection(ctx context.Context, client *qdrant.Client) {
	err := createCollection(ctx, client, config.QACacheCollection)
	if err != nil {
		logger.ForContext(ctx).Error("Semantic cache collection creation failed", "error", err)
	}
}

// GetCachedAnswer only ever returns answers given for the same document.
func (db *ClientHolder) GetCachedAnswer(ctx context.Context, ownerId string, documentId string, queryVector []float32) (string, bool, error) {
	loggr := logger.ForContext(ctx).With("documentId", documentId)

	searchResult, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: config.QACacheCollection,
		Query:          qdrant.NewQuery(queryVector...),
		Filter:         documentFilter(ownerId, documentId),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Cache Query failed", "error", err)
		return "", false, err
	}
	if len(searchResult) == 0 {
		return "", false, nil
	}

	loggr.Debug("Closest cached answer", "semantic similarity score", searchResult[0].Score)
	if searchResult[0].Score < config.CacheSimilarityCutoff {
		return "", false, nil
	}

	loggr.Info("cache hit")
	return searchResult[0].Payload["answer"].GetStringValue(), true, nil
}

func (db *ClientHolder) SaveToCache(ctx context.Context, id string, ownerId string, documentId string, vector []float32, answer string) error {
	loggr := logger.ForContext(ctx).With("documentId", documentId)

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: config.QACacheCollection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"owner_id":    ownerId,
					"document_id": documentId,
					"answer":      answer,
					"timestamp":   time.Now().Unix(),
				}),
			},
		},
	})
	if err != nil {
		loggr.Error("Saving answer to cache failed", "error", err)
	}
	return err
}
