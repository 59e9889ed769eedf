package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/speccloak/speccloak/internal/adapters/outbound/config"
	"github.com/speccloak/speccloak/internal/adapters/outbound/fsreader"
	"github.com/speccloak/speccloak/internal/adapters/outbound/gitcli"
	"github.com/speccloak/speccloak/internal/adapters/outbound/resultset"
	"github.com/speccloak/speccloak/internal/application"
	"github.com/speccloak/speccloak/internal/domain"
	"github.com/speccloak/speccloak/internal/logging"
)

// registerTools registers the speccloak MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	s.AddTool(
		mcplib.NewTool("speccloak_check",
			mcplib.WithDescription("Run the changed-line coverage check and return the structured report"),
			mcplib.WithString("base", mcplib.Description("Base reference to diff against (default from .speccloak.yml or origin/main)")),
			mcplib.WithString("report", mcplib.Description("Path to .resultset.json, relative to the project root")),
		),
		handleCheck(projectPath),
	)

	s.AddTool(
		mcplib.NewTool("speccloak_changed_lines",
			mcplib.WithDescription("Returns the changed line numbers of one file relative to the base reference"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path to the file, relative to the project root"),
			),
			mcplib.WithString("base", mcplib.Description("Base reference to diff against")),
		),
		handleChangedLines(projectPath),
	)
}

// checkOutput is the speccloak_check payload. Report is omitted when the
// run stopped before analysis.
type checkOutput struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Report  *domain.CoverageReport `json:"report,omitempty"`
}

type changedLinesOutput struct {
	File      string `json:"file"`
	Untracked bool   `json:"untracked"`
	Lines     []int  `json:"lines"`
}

type services struct {
	root   string
	cfg    domain.Config
	source *gitcli.Source
	check  *application.CheckService
}

// newServices loads the project config, applies the request overrides and
// wires the check pipeline. Diagnostics go to stderr, never to the stdio
// transport.
func newServices(projectPath string, args map[string]any) (*services, error) {
	root, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.New().Load(root)
	if err != nil {
		return nil, err
	}
	if base, ok := args["base"].(string); ok && base != "" {
		cfg.Base = base
	}
	if report, ok := args["report"].(string); ok && report != "" {
		cfg.ReportPath = report
	}

	log := logging.NewJSON(os.Stderr, logging.LevelFor(false))
	source := gitcli.New(gitcli.NewExecRunner(), root, log)
	svc := application.NewCheckService(
		source,
		resultset.New(os.LookupEnv, cfg.ReportPath),
		fsreader.New(),
		log,
		os.LookupEnv,
	)

	return &services{root: root, cfg: cfg, source: source, check: svc}, nil
}

func handleCheck(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		svcs, err := newServices(projectPath, request.GetArguments())
		if err != nil {
			return errorResult(err.Error()), nil
		}

		run, err := svcs.check.Run(ctx, svcs.root, svcs.cfg)
		if err != nil {
			return errorResult(fmt.Sprintf("check failed: %v", err)), nil
		}

		if run.Stopped != nil {
			return jsonResult(checkOutput{
				Status:  run.Stopped.Status.String(),
				Message: run.Stopped.Message,
			})
		}

		status := domain.StatusSuccess
		if !run.Result.Passed() {
			status = domain.StatusFailure
		}
		report := domain.NewCoverageReport(run.Result)
		return jsonResult(checkOutput{
			Status: status.String(),
			Report: &report,
		})
	}
}

func handleChangedLines(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svcs, err := newServices(projectPath, request.GetArguments())
		if err != nil {
			return errorResult(err.Error()), nil
		}

		changed, err := svcs.source.ChangedFiles(ctx, svcs.cfg.Base)
		if err != nil {
			return errorResult(fmt.Sprintf("discovering changed files: %v", err)), nil
		}
		untracked := changed.IsUntracked(file)

		lines := svcs.check.ChangedLines(ctx, svcs.root, svcs.cfg.Base, file, untracked)
		if lines == nil {
			lines = domain.ChangedLineSet{}
		}

		return jsonResult(changedLinesOutput{
			File:      file,
			Untracked: untracked,
			Lines:     lines,
		})
	}
}

// jsonResult marshals v to indented JSON and wraps it in a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
