// An MCP server implementation for Ceph clusters that enables AI agents
// to search and analyze the journal logs collected from cluster servers
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"cephlog-mcp/internal/models"
	"cephlog-mcp/internal/transport"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/peterbourgon/ff/v3"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := setupConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr only: in stdio mode stdout carries the MCP frames.
	log := newLogger(cfg)
	client := transport.NewClient(cfg, log)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "cephlog-mcp",
		Version: Version,
	}, nil)
	registerAllTools(server, client)
	registerAllPrompts(server)

	if cfg.HTTPAddr != "" {
		if err := NewHTTPServer(server, cfg, log).Start(); err != nil {
			log.Fatal().Err(err).Msg("http server failed")
		}
		return
	}

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatal().Err(err).Msg("stdio server failed")
	}
}

// Version information
var (
	Version   = "dev"     // Set by goreleaser
	CommitSHA = "unknown" // Set by goreleaser
	BuildTime = "unknown" // Set by goreleaser
)

// setupConfig initializes and parses the configuration
func setupConfig() (models.Config, error) {
	fs := flag.NewFlagSet("cephlog-mcp", flag.ExitOnError)

	var cfg models.Config
	fs.StringVar(&cfg.APIToken, "token", os.Getenv("CEPHLOG_API_TOKEN"), "cluster API token")
	fs.StringVar(&cfg.BaseURL, "url", os.Getenv("CEPHLOG_BASE_URL"), "cluster management API URL")
	fs.Float64Var(&cfg.RequestRateLimit, "rate", 1, "requests per second limit")
	fs.IntVar(&cfg.RequestRateBurst, "burst", 1, "request burst capacity")
	fs.StringVar(&cfg.HTTPAddr, "http", "", "serve MCP over HTTP on this address instead of stdio, e.g. :8080")
	fs.BoolVar(&cfg.Debug, "debug", false, "log request and response frames")

	var configFile string
	fs.StringVar(&configFile, "config", "", "config file path")

	err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("CEPHLOG"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if cfg.APIToken == "" {
		return cfg, errors.New("cluster API token must be provided via CEPHLOG_API_TOKEN env var")
	}
	if cfg.BaseURL == "" {
		return cfg, errors.New("cluster API URL must be provided via CEPHLOG_BASE_URL env var")
	}

	return cfg, nil
}

// newLogger builds the process logger. Debug mode lowers the level so the
// transport's frame logging becomes visible.
func newLogger(cfg models.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
}
