// Command movi runs the Movi agent backend: the conversational assistant
// endpoint plus the transit CRUD API.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/movi-ai/movi/internal/agent"
	"github.com/movi-ai/movi/internal/config"
	"github.com/movi-ai/movi/internal/model"
	"github.com/movi-ai/movi/internal/resolve"
	"github.com/movi-ai/movi/internal/server"
	"github.com/movi-ai/movi/internal/store"
	"github.com/movi-ai/movi/internal/tools"
	"github.com/movi-ai/movi/internal/tools/executor"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	slog.SetDefault(newLogger(os.Stderr, *debug))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		return err
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.Database.Seed {
		if err := st.Seed(context.Background()); err != nil {
			return err
		}
	}

	llm, err := model.NewOpenAIClient(cfg.Model.Name)
	if err != nil {
		return err
	}

	resolver := resolve.New(st)
	registry := tools.NewRegistry()
	tools.Initialize(registry, executor.Deps{Store: st, Resolver: resolver})
	slog.Info("tool registry initialized", "tools", len(registry.List()))

	controller := agent.NewController(&agent.Config{
		Model:        llm,
		Tools:        registry,
		Consequences: agent.NewEvaluator(st, resolver),
		MaxToolCalls: cfg.Agent.MaxToolCalls,
		Temperature:  cfg.Model.Temperature,
	})

	return server.New(controller, st).Run(cfg.Server.Addr)
}

func defaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".movi", "config.toml")
}
