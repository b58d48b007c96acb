package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jleechanorg/memlearn/internal/config"
	"github.com/jleechanorg/memlearn/internal/extract"
	"github.com/jleechanorg/memlearn/internal/feedback"
	"github.com/jleechanorg/memlearn/internal/promote"
	"github.com/jleechanorg/memlearn/internal/query"
	"github.com/jleechanorg/memlearn/internal/store"
)

// Server wraps the MCP SDK server and provides memlearn-specific tools.
type Server struct {
	server    *sdk.Server
	store     store.PatternStore
	extractor *extract.Extractor
	tracker   *feedback.Tracker
	engine    *query.Engine
	promoter  *promote.Promoter
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "memlearn")
	Version string // Server version
	Root    string // Workspace root directory
	App     *config.Config
}

// NewServer creates a new MCP server with memlearn tools.
func NewServer(cfg *Config) (*Server, error) {
	patternStore, err := store.Open(cfg.App.Store.Backend, cfg.App.DataDir(cfg.Root))
	if err != nil {
		return nil, fmt.Errorf("failed to open pattern store: %w", err)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		server:    mcpServer,
		store:     patternStore,
		extractor: extract.New(),
		tracker:   feedback.NewTracker(patternStore),
		engine:    query.NewEngine(patternStore),
		promoter: promote.NewPromoter(patternStore, cfg.App.RulesPath(cfg.Root),
			cfg.App.BackupDir(cfg.Root), cfg.App.Rules.KeepBackups),
	}
	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		cancel()
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	s.store.Close()

	return err
}

// Close closes the server and releases resources.
func (s *Server) Close() error {
	return s.store.Close()
}
