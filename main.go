package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"responsive-mcp-server/internal/application"
	"responsive-mcp-server/internal/domain"
	"responsive-mcp-server/internal/infrastructure"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// The standard logger writes to stderr; stdout belongs to the protocol.
	log.SetOutput(os.Stderr)

	// Load a .env file when present so the API token can live next to
	// the binary during development.
	_ = godotenv.Load()

	// Load configuration. A missing config file falls back to defaults
	// (stdio transport, production Responsive endpoint) since the server
	// is usually spawned by an MCP client with only environment config.
	config, err := domain.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Configuration loaded successfully")

	// Create authentication manager. A missing token is deliberately not
	// fatal here: it surfaces as a configuration error on the first
	// remote call, through the tool-result path.
	authManager := domain.NewAuthenticationManagerFromConfig(config)
	if !authManager.HasCredentials() {
		log.Printf("Warning: no Responsive API token configured (%s) - searches will fail until one is provided", domain.TokenEnvVar)
	}

	// Create the Responsive client and the content search handler.
	searchClient := infrastructure.NewResponsiveClient(config.Responsive.BaseURL, authManager)
	contentHandler := application.NewContentHandler(searchClient)
	log.Printf("Content search handler registered (base URL: %s)", config.Responsive.BaseURL)

	// Create request router
	router := application.NewRequestRouter(contentHandler)

	// Create transport based on configuration
	var transport domain.Transport
	switch config.Transport.Type {
	case "stdio":
		log.Println("Initializing stdio transport")
		transport = domain.NewStdioTransport()
	case "http":
		log.Printf("Initializing HTTP transport on %s:%d", config.Transport.HTTP.Host, config.Transport.HTTP.Port)
		transport = domain.NewHTTPTransport(config.Transport.HTTP.Host, config.Transport.HTTP.Port)
	default:
		log.Fatalf("Invalid transport type: %s", config.Transport.Type)
	}

	// Create server with all dependencies
	server := application.NewServer(transport, router, config)
	log.Println("MCP server created")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in a goroutine
	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting MCP server...")
		if err := server.Start(ctx); err != nil {
			errChan <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	if config.Transport.Type == "stdio" {
		log.Println("MCP server started successfully (stdio transport)")
	} else {
		log.Printf("MCP server started successfully (HTTP transport on %s:%d)",
			config.Transport.HTTP.Host, config.Transport.HTTP.Port)
	}

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		log.Println("Initiating graceful shutdown...")
		cancel()
	case err := <-errChan:
		log.Printf("Server error: %v", err)
		cancel()
		if err := server.Close(); err != nil {
			log.Printf("Error closing server: %v", err)
		}
		os.Exit(1)
	}

	// Close the server
	log.Println("Closing server...")
	if err := server.Close(); err != nil {
		log.Printf("Error during server shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server shutdown complete")
}
