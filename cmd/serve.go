package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ftpmirror/internal/config"
	"ftpmirror/internal/engine"
	mcpserver "ftpmirror/internal/mcp"
)

var (
	serveTransport string
	servePort      int
	serveAPIKey    string
	serveNoMonitor bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for AI assistant integration",
	Long: `Start a Model Context Protocol (MCP) server that lets AI assistants
configure and drive folder monitoring: submit configurations, pause and
resume, trigger cycles and read the operation log.

If the configuration file exists it is applied on startup and monitoring
begins immediately; otherwise the engine starts unconfigured and waits
for a submit_config call.

Transport options:
  stdio: Standard input/output (default, for local CLI integration)
  sse:   Server-Sent Events over HTTP (for remote connections, requires API key)
  http:  Streamable HTTP (for bidirectional HTTP communication, requires API key)

Examples:
  # Start stdio server (for Claude Desktop config)
  ftpmirror serve

  # Start HTTP/SSE server on port 8080 (API key required)
  ftpmirror serve --transport sse --port 8080 --serve-api-key mysecretkey

  # Or use environment variable for API key
  export FTPMIRROR_SERVE_API_KEY=mysecretkey
  ftpmirror serve --transport sse --port 8080

Claude Desktop Configuration (~/.config/claude/claude_desktop_config.json):
  {
    "mcpServers": {
      "ftpmirror": {
        "command": "/path/to/ftpmirror",
        "args": ["serve", "--config", "/path/to/ftpmirror.yaml"]
      }
    }
  }`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "stdio", "Transport type: stdio, sse, or http")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port for HTTP/SSE server")
	serveCmd.Flags().StringVar(&serveAPIKey, "serve-api-key", "", "API key for HTTP authentication (or FTPMIRROR_SERVE_API_KEY env var)")
	serveCmd.Flags().BoolVar(&serveNoMonitor, "no-monitor", false, "Start with monitoring paused; resume via the toggle_monitoring tool")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	eng := engine.New()
	if serveNoMonitor {
		eng.SetActive(false)
	}

	cfg, err := config.Load(configFile)
	switch {
	case err == nil:
		if err := eng.SubmitConfig(*cfg); err != nil {
			return fmt.Errorf("failed to apply configuration: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Applied configuration: %d folder(s) on %s\n", len(cfg.Folders), cfg.Server.Host)
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintf(os.Stderr, "No configuration at %s, starting unconfigured\n", configFile)
	default:
		return err
	}
	defer eng.Stop()

	server := mcpserver.NewServer(eng, Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	switch serveTransport {
	case "stdio":
		go func() {
			<-sigChan
			cancel()
		}()
		fmt.Fprintln(os.Stderr, "Starting MCP server on stdio...")
		return server.RunStdio(ctx)

	case "sse":
		return runHTTPServerWithShutdown(server.NewHTTPHandler(), "SSE", sigChan)

	case "http":
		return runHTTPServerWithShutdown(server.NewStreamableHTTPHandler(), "HTTP", sigChan)

	default:
		return fmt.Errorf("unknown transport: %s (must be stdio, sse, or http)", serveTransport)
	}
}

func runHTTPServerWithShutdown(handler http.Handler, transportName string, sigChan chan os.Signal) error {
	httpAPIKey := serveAPIKey
	if httpAPIKey == "" {
		httpAPIKey = os.Getenv("FTPMIRROR_SERVE_API_KEY")
	}

	// Require API key for HTTP server
	if httpAPIKey == "" {
		return fmt.Errorf("API key required for HTTP server. Use --serve-api-key or set FTPMIRROR_SERVE_API_KEY environment variable")
	}

	handler = mcpserver.APIKeyMiddleware(httpAPIKey, handler)

	addr := fmt.Sprintf(":%d", servePort)
	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Graceful shutdown on signal
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	fmt.Fprintf(os.Stderr, "Starting MCP %s server on http://localhost%s (API key authentication enabled)\n", transportName, addr)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
