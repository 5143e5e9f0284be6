// Command responsive-client spawns the responsive-mcp-server binary as
// a subprocess, performs the MCP handshake, lists the advertised
// prompts, resources, and tools, and invokes the search_content tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"responsive-mcp-server/internal/mcpclient"
)

func main() {
	serverPath := flag.String("server", "./responsive-mcp-server", "Path to the MCP server binary")
	keyword := flag.String("keyword", "conduct", "Keyword to search the content library for")
	timeout := flag.Duration("timeout", 60*time.Second, "Overall session timeout")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// Pick up RESPONSIVE_API_TOKEN from a .env file when present; the
	// token is forwarded to the server through its environment.
	_ = godotenv.Load()

	if err := run(*serverPath, *keyword, *timeout, logger); err != nil {
		logger.Error("session failed", "error", err)
		os.Exit(1)
	}
}

func run(serverPath, keyword string, timeout time.Duration, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	transport := mcpclient.NewStdioTransport(mcpclient.StdioConfig{
		Command: serverPath,
		Logger:  logger,
	})

	session := mcpclient.NewSession(transport, logger)
	// The subprocess is terminated on every exit path, including errors.
	defer session.Close()

	if err := session.Initialize(ctx); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}

	prompts, err := session.ListPrompts(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("prompts: %v\n", prompts)

	resources, err := session.ListResources(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("resources: %v\n", resources)

	tools, err := session.ListTools(ctx)
	if err != nil {
		return err
	}
	for _, tool := range tools {
		fmt.Printf("tool: %s - %s\n", tool.Name, tool.Description)
	}

	result := session.CallTool(ctx, "search_content", map[string]any{
		"keyword": keyword,
	})
	if !result.OK() {
		// A failed invocation is reported, not fatal: the session and
		// subprocess still shut down cleanly.
		fmt.Printf("search failed (%s): %s\n", result.Err.Kind, result.Err.Message)
		return nil
	}

	fmt.Printf("search results:\n%v\n", result.Payload)
	return nil
}
