// Package mcp exposes the engine operations as MCP tools
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/KirkDiggler/dnd-mcp/internal/clients/content"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	"github.com/KirkDiggler/dnd-mcp/internal/orchestrators/character"
	"github.com/KirkDiggler/dnd-mcp/internal/orchestrators/dice"
	"github.com/KirkDiggler/dnd-mcp/internal/orchestrators/encounter"
	"github.com/KirkDiggler/dnd-mcp/internal/orchestrators/resources"
	"github.com/KirkDiggler/dnd-mcp/internal/orchestrators/session"
)

const serverName = "dnd-mcp"

// Config holds dependencies for the MCP server
type Config struct {
	Version          string
	CharacterService character.Service
	EncounterService encounter.Service
	ResourceService  resources.Service
	SessionService   session.Service
	DiceService      dice.Service
	Content          content.Client
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()

	if c.CharacterService == nil {
		vb.RequiredField("CharacterService")
	}
	if c.EncounterService == nil {
		vb.RequiredField("EncounterService")
	}
	if c.ResourceService == nil {
		vb.RequiredField("ResourceService")
	}
	if c.SessionService == nil {
		vb.RequiredField("SessionService")
	}
	if c.DiceService == nil {
		vb.RequiredField("DiceService")
	}
	if c.Content == nil {
		vb.RequiredField("Content")
	}

	return vb.Build()
}

// Server registers every tool on one MCP server
type Server struct {
	server     *mcpsdk.Server
	characters character.Service
	encounters encounter.Service
	resources  resources.Service
	sessions   session.Service
	dice       dice.Service
	content    content.Client
}

// NewServer creates the MCP server with all tools registered
func NewServer(cfg *Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		server:     mcpsdk.NewServer(&mcpsdk.Implementation{Name: serverName, Version: version}, nil),
		characters: cfg.CharacterService,
		encounters: cfg.EncounterService,
		resources:  cfg.ResourceService,
		sessions:   cfg.SessionService,
		dice:       cfg.DiceService,
		content:    cfg.Content,
	}

	s.registerCharacterTools()
	s.registerEncounterTools()
	s.registerResourceTools()
	s.registerSessionTools()
	s.registerLookupTools()

	return s, nil
}

// MCP returns the underlying SDK server
func (s *Server) MCP() *mcpsdk.Server {
	return s.server
}

// Run serves tool calls over transport until ctx is cancelled or the peer
// disconnects
func (s *Server) Run(ctx context.Context, transport mcpsdk.Transport) error {
	slog.InfoContext(ctx, "MCP server starting", "name", serverName)
	if err := s.server.Run(ctx, transport); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return errors.Wrap(err, "mcp server stopped")
	}
	return nil
}

// addTool registers fn as a typed tool; errors become isError results
// carrying the structured error as JSON
func addTool[In, Out any](srv *mcpsdk.Server, name, description string, fn func(context.Context, In) (Out, error)) {
	mcpsdk.AddTool(srv, &mcpsdk.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *mcpsdk.CallToolRequest, in In) (*mcpsdk.CallToolResult, Out, error) {
			out, err := fn(ctx, in)
			if err != nil {
				var zero Out
				return nil, zero, toolError(ctx, name, err)
			}
			return nil, out, nil
		})
}

func campaignRef(userID, campaignID string) keyspace.Ref {
	return keyspace.Ref{UserID: userID, CampaignID: campaignID}
}
