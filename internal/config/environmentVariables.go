package config

import (
	"log/slog"
	"time"
)

const (
	LOG_LEVEL_PROD              = slog.LevelInfo
	TRACE_ID_KEY                = "traceId"
	OWNER_ID_HEADER             = "X-Owner-Id"
	OWNER_ID_KEY                = "ownerId"
	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5
	RateLimiterIdleEviction     = 10 * time.Minute
	CacheSimilarityCutoff       = 0.97

	//upload limits
	MaxUploadBytes       int64 = 10 << 20 //10mb
	MultipartSlackBytes  int64 = 1 << 20  //form boundaries and the owner_id part
	MinPDFTextLength           = 20
	MinStructureTextSize       = 50
	MaxStructureTextSize       = 15000
	PDFPageTimeout             = 10 * time.Second

	//structuring call
	StructurerModelName             = "google/gemini-3-flash-preview"
	StructurerMaxTokens       int64 = 8000
	StructurerTemperature           = 0.3
	StructurerRequestTimeout        = 90 * time.Second
	StructureToolName               = "structure_document"
	DefaultAIGatewayURL             = "https://ai.gateway.lovable.dev/v1"
	GeminiStructurerModelName       = "gemini-2.5-flash"
	ProviderGateway                 = "gateway"
	ProviderGemini                  = "gemini"

	//persistence
	UntitledDocument         = "Untitled"
	DefaultDifficulty        = "medium"
	DefaultChunkSizeModifier = 1.0
	SectionPersistParallel   = 4
	PostgresConnectTimeout   = 10 * time.Second

	//qa index
	EmbeddingOutputDimensionality int32   = 768
	StudyChunkCollection                  = "study-chunks"
	QACacheCollection                     = "qa-cache"
	QASearchLimit                         = 4
	EmbeddingBatchSize                    = 100
	QAAnswerTemperature           float32 = 0.4
	IndexDocumentTimeout                  = 60 * time.Second
	QANoContextAnswer                     = "I could not find anything about that in this document."
	QAModelContext                        = "You are StudyPadi's study assistant. Answer the learner's question using only the provided excerpts from their document. If the excerpts do not contain the answer, say so briefly. Keep answers clear and concise."

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	IngestJobTimeout                = 3 * time.Minute
	AskJobTimeout                   = 60 * time.Second
	QueuedStatusText                = "Waiting in queue"

	//serverTimeouts
	ReadTimeout            = 15 * time.Second
	WriteTimeout           = 15 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false //set for https
	QdrantPoolSize         = 1     //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout = 30 * time.Second

	//embeddings
	GoogleEmbeddingModel = "gemini-embedding-001"
	GeminiAnswerModel    = "gemini-2.5-flash-lite"

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore      = 0
	RedisProgressStore = 1

	//redis timeouts
	RedisJobStoreTTL      = 24 * time.Hour
	RedisProgressStoreTTL = 24 * time.Hour
)
