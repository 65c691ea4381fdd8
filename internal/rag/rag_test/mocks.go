package rag_test

import (
	"context"

	"github.com/akolanti/studypadi/internal/rag/vectorDB"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	OnSearch          func(ctx context.Context, ownerId string, documentId string, vectorVal []float32) ([]vectorDB.Match, error)
	OnGetCachedAnswer func(ctx context.Context, ownerId string, documentId string, queryVector []float32) (string, bool, error)
	OnSaveToCache     func(ctx context.Context, id string, ownerId string, documentId string, vector []float32, answer string) error
	OnUpsertChunks    func(ctx context.Context, points []vectorDB.ChunkPoint, vectors [][]float32) error
}

func (m *MockVectorDB) Search(ctx context.Context, ownerId string, documentId string, v []float32) ([]vectorDB.Match, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, ownerId, documentId, v)
	}
	return []vectorDB.Match{{Content: "default context", SectionTitle: "Intro"}}, nil
}

func (m *MockVectorDB) GetCachedAnswer(ctx context.Context, ownerId string, documentId string, v []float32) (string, bool, error) {
	if m.OnGetCachedAnswer != nil {
		return m.OnGetCachedAnswer(ctx, ownerId, documentId, v)
	}
	return "", false, nil
}

func (m *MockVectorDB) SaveToCache(ctx context.Context, id string, ownerId string, documentId string, v []float32, a string) error {
	if m.OnSaveToCache != nil {
		return m.OnSaveToCache(ctx, id, ownerId, documentId, v, a)
	}
	return nil
}

func (m *MockVectorDB) UpsertChunks(ctx context.Context, points []vectorDB.ChunkPoint, vectors [][]float32) error {
	if m.OnUpsertChunks != nil {
		return m.OnUpsertChunks(ctx, points, vectors)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	return make([][]float32, len(chunks)), nil
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1}, nil
}

// MockLLM implements llm.Generator
type MockLLM struct {
	Calls      int
	OnGenerate func(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	m.Calls++
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, systemPrompt, userPrompt)
	}
	return "mocked llm response", nil
}
