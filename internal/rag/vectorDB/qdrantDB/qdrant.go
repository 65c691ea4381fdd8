package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/rag/vectorDB"
	"github.com/akolanti/studypadi/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var quadrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	QObj *qdrant.Client
}

var _ vectorDB.DataProcessor = (*ClientHolder)(nil)

// GetQuadrantClient returns nil when Qdrant is not configured or unreachable.
func GetQuadrantClient(ctx context.Context, host string, port int) *ClientHolder {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		if host == "" {
			logger.Warn("QDRANT_HOST not set, document questions are disabled")
			return
		}
		res := newClient(ctx, host, port)
		if res != nil {
			quadrantInstance = res
			initCacheCollection(ctx, quadrantInstance)
			go closeQdrant(ctx, quadrantInstance)
		}
	})

	if quadrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: quadrantInstance,
	}
}

func newClient(ctx context.Context, host string, port int) *qdrant.Client {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	err = createCollection(ctx, client, config.StudyChunkCollection)
	if err != nil {
		logger.Error("could not create collection: ", "collectionName", config.StudyChunkCollection, "error:", err)
		return nil
	}
	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

func documentFilter(ownerId string, documentId string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("owner_id", ownerId),
			qdrant.NewMatch("document_id", documentId),
		},
	}
}

func (db *ClientHolder) Search(ctx context.Context, ownerId string, documentId string, vectorFloat []float32) ([]vectorDB.Match, error) {
	loggr := logger.ForContext(ctx).With("documentId", documentId)
	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: config.StudyChunkCollection,
		Query:          qdrant.NewQuery(vectorFloat...),
		Filter:         documentFilter(ownerId, documentId),
		Limit:          qdrant.PtrOf(uint64(config.QASearchLimit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	matches := make([]vectorDB.Match, 0, len(result))
	for _, hit := range result {
		matches = append(matches, vectorDB.Match{
			Content:      hit.Payload["content"].GetStringValue(),
			SectionTitle: hit.Payload["section_title"].GetStringValue(),
			SectionIndex: int(hit.Payload["section_index"].GetIntegerValue()),
			ChunkIndex:   int(hit.Payload["chunk_index"].GetIntegerValue()),
			Score:        hit.Score,
		})
	}
	loggr.Debug("Found matches", "count", len(matches))
	return matches, nil
}

func (db *ClientHolder) UpsertChunks(ctx context.Context, points []vectorDB.ChunkPoint, vectors [][]float32) error {
	if len(points) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(points), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(p.Id),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"owner_id":       p.OwnerId,
				"document_id":    p.DocumentId,
				"document_title": p.DocumentTitle,
				"section_title":  p.SectionTitle,
				"section_index":  p.SectionIndex,
				"chunk_index":    p.ChunkIndex,
				"content":        p.Content,
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: config.StudyChunkCollection,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}
