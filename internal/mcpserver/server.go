// Package mcpserver exposes ingestion and the document library as MCP tools.
package mcpserver

import (
	"context"
	"errors"

	"github.com/akolanti/studypadi/internal/domain/studyModel"
	"github.com/akolanti/studypadi/internal/ingest"
	"github.com/akolanti/studypadi/internal/ingest/extract"
	"github.com/akolanti/studypadi/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "0.1.0"

var (
	ErrMissingPipeline  = errors.New("mcp: ingestion pipeline is required")
	ErrMissingDocuments = errors.New("mcp: document reader is required")
)

type Ingestor interface {
	Run(ctx context.Context, ownerId string, upload extract.Upload, reporter ingest.Reporter) (studyModel.IngestResult, error)
}

type Server struct {
	pipeline  Ingestor
	documents studyModel.DocumentReader
	server    *mcp.Server
	logger    *logger_i.Logger
}

func NewServer(pipeline Ingestor, documents studyModel.DocumentReader) (*Server, error) {
	if pipeline == nil {
		return nil, ErrMissingPipeline
	}
	if documents == nil {
		return nil, ErrMissingDocuments
	}
	s := &Server{
		pipeline:  pipeline,
		documents: documents,
		server:    mcp.NewServer(&mcp.Implementation{Name: "studypadi", Version: Version}, nil),
		logger:    logger_i.NewLogger("MCP"),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
