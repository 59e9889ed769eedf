package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/speccloak/speccloak/internal/adapters/outbound/config"
	"github.com/speccloak/speccloak/internal/adapters/outbound/history"
	"github.com/speccloak/speccloak/internal/domain"
)

const (
	configURI  = "speccloak://config"
	historyURI = "speccloak://history"
)

// registerResources registers the speccloak MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string) {
	s.AddResource(
		mcplib.NewResource(
			configURI,
			"Configuration",
			mcplib.WithResourceDescription("Effective configuration: defaults overlaid with .speccloak.yml"),
			mcplib.WithMIMEType("application/json"),
		),
		handleConfigResource(projectPath),
	)

	s.AddResource(
		mcplib.NewResource(
			historyURI,
			"Run History",
			mcplib.WithResourceDescription("Coverage runs recorded with --save-history, oldest first"),
			mcplib.WithMIMEType("application/json"),
		),
		handleHistoryResource(projectPath),
	)
}

func handleConfigResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		cfg, err := config.New().Load(projectPath)
		if err != nil {
			return nil, err
		}
		return jsonResource(configURI, cfg)
	}
}

func handleHistoryResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		entries, err := history.New().Load(projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading history: %w", err)
		}
		if entries == nil {
			entries = []domain.RunEntry{}
		}
		return jsonResource(historyURI, entries)
	}
}

func jsonResource(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
