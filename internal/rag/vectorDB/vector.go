package vectorDB

import "context"

// ChunkPoint is one learning chunk as stored in the vector index.
type ChunkPoint struct {
	Id            string
	OwnerId       string
	DocumentId    string
	DocumentTitle string
	SectionTitle  string
	SectionIndex  int
	ChunkIndex    int
	Content       string
}

type Match struct {
	Content      string
	SectionTitle string
	SectionIndex int
	ChunkIndex   int
	Score        float32
}

// DataProcessor scopes every read by owner and document.
type DataProcessor interface {
	Search(ctx context.Context, ownerId string, documentId string, vectorVal []float32) ([]Match, error)
	GetCachedAnswer(ctx context.Context, ownerId string, documentId string, queryVector []float32) (string, bool, error)
	SaveToCache(ctx context.Context, id string, ownerId string, documentId string, vector []float32, answer string) error

	UpsertChunks(ctx context.Context, points []ChunkPoint, vectors [][]float32) error
}
