package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewSpeccloakMCPServer creates an MCP server with the speccloak tools and
// resources registered. The projectPath is the root directory of the project
// to check.
func NewSpeccloakMCPServer(projectPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"speccloak",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath)
	registerResources(s, projectPath)

	return s
}
