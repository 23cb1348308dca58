package mcp

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"ftpmirror/internal/engine"
)

// Server exposes engine control as MCP tools so collaborating agents can
// configure, drive and observe folder monitoring.
type Server struct {
	mcpServer *mcp.Server
	engine    *engine.Engine
}

// NewServer creates an MCP server bound to eng.
func NewServer(eng *engine.Engine, version string) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "ftpmirror",
		Version: version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		engine:    eng,
	}

	s.registerTools()

	return s
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_status",
		Description: "Get the current engine status: what it is doing, whether a configuration is applied and how many folders are monitored.",
	}, s.handleGetStatus)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "submit_config",
		Description: "Submit a mirror configuration: the FTP server plus the folders to monitor. A valid configuration replaces the current one and starts monitoring immediately.",
	}, s.handleSubmitConfig)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "toggle_monitoring",
		Description: "Pause or resume monitoring. Paused timers keep firing but their ticks are skipped.",
	}, s.handleToggleMonitoring)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "tail_log",
		Description: "Read the operation log, newest first, optionally filtered by severity.",
	}, s.handleTailLog)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "folder_outcomes",
		Description: "Show the monitored folders and the per-file outcomes of their most recent ingestion cycle.",
	}, s.handleFolderOutcomes)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "run_cycle",
		Description: "Run one ingestion cycle for a folder right now, regardless of its schedule. Waits for an in-flight cycle of the same folder to finish first.",
	}, s.handleRunCycle)
}

// RunStdio runs the server using stdio transport
func (s *Server) RunStdio(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// NewHTTPHandler creates an HTTP handler for SSE transport
func (s *Server) NewHTTPHandler() http.Handler {
	return mcp.NewSSEHandler(func(req *http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}

// NewStreamableHTTPHandler creates a streamable HTTP handler
func (s *Server) NewStreamableHTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}
