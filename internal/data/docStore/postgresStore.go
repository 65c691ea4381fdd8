package docStore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/domain/studyModel"
	"github.com/akolanti/studypadi/pkg/logger_i"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *logger_i.Logger
}

var _ studyModel.DocumentStore = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.PostgresConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	s := &PostgresStore{pool: pool, logger: logger_i.NewLogger("Postgres DocStore")}
	if err := s.bootstrap(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	s.logger.Info("Postgres document store ready")
	return s, nil
}

// bootstrap applies the idempotent schema in one transaction.
func (s *PostgresStore) bootstrap(ctx context.Context) error {
	bootCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	return pgx.BeginFunc(bootCtx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(bootCtx, schemaSQL)
		return err
	})
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) InsertDocument(ctx context.Context, doc studyModel.Document) error {
	const q = `
		INSERT INTO documents (id, owner_id, title, original_filename, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.pool.Exec(ctx, q, doc.Id, doc.OwnerId, doc.Title, nullIfEmpty(doc.OriginalFilename), doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertSection(ctx context.Context, section studyModel.Section) error {
	const q = `
		INSERT INTO sections (id, document_id, title, order_index, completed)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.pool.Exec(ctx, q, section.Id, section.DocumentId, section.Title, section.OrderIndex, section.Completed)
	if err != nil {
		return fmt.Errorf("insert section: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertChunks(ctx context.Context, chunks []studyModel.Chunk) error {
	const q = `
		INSERT INTO chunks (id, section_id, content, order_index, word_count)
		VALUES ($1, $2, $3, $4, $5)
	`
	batch := &pgx.Batch{}
	for _, c := range chunks {
		batch.Queue(q, c.Id, c.SectionId, c.Content, c.OrderIndex, c.WordCount)
	}
	return s.sendBatch(ctx, "chunks", batch)
}

func (s *PostgresStore) InsertQuestions(ctx context.Context, questions []studyModel.Question) error {
	const q = `
		INSERT INTO questions (id, section_id, question_text, options, correct_answer, explanation, order_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	batch := &pgx.Batch{}
	for _, qu := range questions {
		batch.Queue(q, qu.Id, qu.SectionId, qu.QuestionText, qu.Options, qu.CorrectAnswer, qu.Explanation, qu.OrderIndex)
	}
	return s.sendBatch(ctx, "questions", batch)
}

func (s *PostgresStore) InsertFlashcards(ctx context.Context, cards []studyModel.Flashcard) error {
	const q = `
		INSERT INTO flashcards (id, owner_id, document_id, term, definition, difficulty_level, source, times_reviewed, order_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	batch := &pgx.Batch{}
	for _, f := range cards {
		batch.Queue(q, f.Id, f.OwnerId, f.DocumentId, f.Term, f.Definition, string(f.DifficultyLevel), f.Source, f.TimesReviewed, f.OrderIndex, f.CreatedAt)
	}
	return s.sendBatch(ctx, "flashcards", batch)
}

func (s *PostgresStore) InsertLearningProgress(ctx context.Context, p studyModel.LearningProgress) error {
	const q = `
		INSERT INTO learning_progress (id, owner_id, document_id, current_section_id, current_chunk_id, chunk_size_modifier, last_accessed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.pool.Exec(ctx, q, p.Id, p.OwnerId, p.DocumentId,
		nullIfEmpty(p.CurrentSectionId), nullIfEmpty(p.CurrentChunkId), p.ChunkSizeModifier, p.LastAccessedAt)
	if err != nil {
		return fmt.Errorf("insert learning progress: %w", err)
	}
	return nil
}

// sendBatch runs every queued insert in one transaction so a batch lands whole or not at all.
func (s *PostgresStore) sendBatch(ctx context.Context, table string, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("insert %s batch of %d: %w", table, batch.Len(), err)
	}
	return nil
}

func (s *PostgresStore) ListDocuments(ctx context.Context, ownerId string) ([]studyModel.DocumentSummary, error) {
	const q = `
		SELECT d.id, d.owner_id, d.title, COALESCE(d.original_filename, ''), d.created_at,
		       (SELECT count(*) FROM sections s WHERE s.document_id = d.id),
		       (SELECT count(*) FROM chunks c JOIN sections s ON s.id = c.section_id WHERE s.document_id = d.id),
		       (SELECT count(*) FROM questions qu JOIN sections s ON s.id = qu.section_id WHERE s.document_id = d.id),
		       (SELECT count(*) FROM flashcards f WHERE f.document_id = d.id)
		FROM documents d
		WHERE d.owner_id = $1
		ORDER BY d.created_at DESC
	`
	rows, err := s.pool.Query(ctx, q, ownerId)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (studyModel.DocumentSummary, error) {
		var d studyModel.DocumentSummary
		err := row.Scan(&d.Id, &d.OwnerId, &d.Title, &d.OriginalFilename, &d.CreatedAt,
			&d.SectionsCount, &d.ChunksCount, &d.QuestionsCount, &d.FlashcardsCount)
		return d, err
	})
}

func (s *PostgresStore) GetDocumentTree(ctx context.Context, ownerId string, documentId string) (studyModel.DocumentTree, error) {
	var tree studyModel.DocumentTree

	const docQ = `
		SELECT id, owner_id, title, COALESCE(original_filename, ''), created_at
		FROM documents WHERE id = $1 AND owner_id = $2
	`
	d := &tree.Document
	err := s.pool.QueryRow(ctx, docQ, documentId, ownerId).Scan(&d.Id, &d.OwnerId, &d.Title, &d.OriginalFilename, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return tree, studyModel.ErrDocumentNotFound
	}
	if err != nil {
		return tree, fmt.Errorf("get document: %w", err)
	}

	sections, err := s.sections(ctx, documentId)
	if err != nil {
		return tree, err
	}
	chunks, err := s.chunks(ctx, documentId)
	if err != nil {
		return tree, err
	}
	questions, err := s.questions(ctx, documentId)
	if err != nil {
		return tree, err
	}
	tree.Sections = assembleSections(sections, chunks, questions)

	if tree.Flashcards, err = s.flashcards(ctx, documentId); err != nil {
		return tree, err
	}
	if tree.Progress, err = s.progress(ctx, ownerId, documentId); err != nil {
		return tree, err
	}
	return tree, nil
}

func (s *PostgresStore) sections(ctx context.Context, documentId string) ([]studyModel.Section, error) {
	const q = `
		SELECT id, document_id, title, order_index, completed
		FROM sections WHERE document_id = $1 ORDER BY order_index
	`
	rows, err := s.pool.Query(ctx, q, documentId)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (studyModel.Section, error) {
		var sec studyModel.Section
		err := row.Scan(&sec.Id, &sec.DocumentId, &sec.Title, &sec.OrderIndex, &sec.Completed)
		return sec, err
	})
}

func (s *PostgresStore) chunks(ctx context.Context, documentId string) ([]studyModel.Chunk, error) {
	const q = `
		SELECT c.id, c.section_id, c.content, c.order_index, c.word_count
		FROM chunks c JOIN sections s ON s.id = c.section_id
		WHERE s.document_id = $1 ORDER BY s.order_index, c.order_index
	`
	rows, err := s.pool.Query(ctx, q, documentId)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (studyModel.Chunk, error) {
		var c studyModel.Chunk
		err := row.Scan(&c.Id, &c.SectionId, &c.Content, &c.OrderIndex, &c.WordCount)
		return c, err
	})
}

func (s *PostgresStore) questions(ctx context.Context, documentId string) ([]studyModel.Question, error) {
	const q = `
		SELECT qu.id, qu.section_id, qu.question_text, qu.options, qu.correct_answer, qu.explanation, qu.order_index
		FROM questions qu JOIN sections s ON s.id = qu.section_id
		WHERE s.document_id = $1 ORDER BY s.order_index, qu.order_index
	`
	rows, err := s.pool.Query(ctx, q, documentId)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (studyModel.Question, error) {
		var qu studyModel.Question
		err := row.Scan(&qu.Id, &qu.SectionId, &qu.QuestionText, &qu.Options, &qu.CorrectAnswer, &qu.Explanation, &qu.OrderIndex)
		return qu, err
	})
}

func (s *PostgresStore) flashcards(ctx context.Context, documentId string) ([]studyModel.Flashcard, error) {
	const q = `
		SELECT id, owner_id, document_id, term, definition, difficulty_level, source, times_reviewed, order_index, created_at
		FROM flashcards WHERE document_id = $1 ORDER BY order_index
	`
	rows, err := s.pool.Query(ctx, q, documentId)
	if err != nil {
		return nil, fmt.Errorf("list flashcards: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (studyModel.Flashcard, error) {
		var f studyModel.Flashcard
		var level string
		err := row.Scan(&f.Id, &f.OwnerId, &f.DocumentId, &f.Term, &f.Definition, &level, &f.Source, &f.TimesReviewed, &f.OrderIndex, &f.CreatedAt)
		f.DifficultyLevel = studyModel.Difficulty(level)
		return f, err
	})
}

func (s *PostgresStore) progress(ctx context.Context, ownerId string, documentId string) (*studyModel.LearningProgress, error) {
	const q = `
		SELECT id, owner_id, document_id, COALESCE(current_section_id, ''), COALESCE(current_chunk_id, ''),
		       chunk_size_modifier, last_accessed_at
		FROM learning_progress WHERE owner_id = $1 AND document_id = $2
	`
	var p studyModel.LearningProgress
	err := s.pool.QueryRow(ctx, q, ownerId, documentId).Scan(&p.Id, &p.OwnerId, &p.DocumentId,
		&p.CurrentSectionId, &p.CurrentChunkId, &p.ChunkSizeModifier, &p.LastAccessedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get learning progress: %w", err)
	}
	return &p, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
