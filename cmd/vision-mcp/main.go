// Vision MCP — сервер анализа изображений по протоколу MCP.
//
// По умолчанию говорит JSON-RPC через stdin/stdout (stdout занят
// протоколом, поэтому логи пишутся в файл). С server.host в конфиге
// или флагом -listen поднимается HTTP режим.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ilkoid/vision-mcp/pkg/config"
	"github.com/ilkoid/vision-mcp/pkg/factory"
	"github.com/ilkoid/vision-mcp/pkg/imageref"
	"github.com/ilkoid/vision-mcp/pkg/mcp"
	"github.com/ilkoid/vision-mcp/pkg/s3storage"
	"github.com/ilkoid/vision-mcp/pkg/tools"
	"github.com/ilkoid/vision-mcp/pkg/tools/std"
	"github.com/ilkoid/vision-mcp/pkg/utils"
	"github.com/ilkoid/vision-mcp/pkg/vision"
)

const serverVersion = "1.0.0"

var (
	configFlag = flag.String("config", "", "Path to config.yaml (default: next to binary)")
	listenFlag = flag.String("listen", "", "HTTP listen address (overrides config; empty = stdio)")
	modelFlag  = flag.String("model", "", "Vision model alias from config (default: models.default_vision)")
)

func main() {
	flag.Parse()

	// === КОНФИГУРАЦИЯ ===
	cfgPath, err := config.ResolvePath(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config lookup failed: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config load failed: %v\n", err)
		os.Exit(1)
	}

	// === ЛОГГЕР ===
	if err := utils.InitLogger(cfg.App.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "Logger init failed: %v\n", err)
	}

	utils.Info("vision-mcp started", "config", cfgPath, "version", serverVersion)

	ctx, cancel := context.WithCancel(context.Background())
	cleanup := utils.SetupGracefulShutdown(cancel)
	defer cleanup()

	if err := run(ctx, cfg); err != nil {
		utils.Error("Server stopped with error", "error", err)
		fmt.Fprintf(os.Stderr, "Server stopped with error: %v\n", err)
		cleanup()
		os.Exit(1)
	}

	utils.Info("vision-mcp stopped")
}

func run(ctx context.Context, cfg *config.AppConfig) error {
	// === СБОРКА КОМПОНЕНТОВ ===
	modelDef, ok := cfg.GetVisionModel(*modelFlag)
	if !ok {
		return fmt.Errorf("vision model '%s' is not defined in config", *modelFlag)
	}

	provider, err := factory.NewVisionProvider(modelDef)
	if err != nil {
		return fmt.Errorf("failed to create vision provider: %w", err)
	}

	var s3Client s3storage.ClientInterface
	if cfg.S3.Enabled() {
		s3Client, err = s3storage.New(cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to create s3 client: %w", err)
		}
		utils.Info("s3 storage enabled", "endpoint", cfg.S3.Endpoint)
	}

	analyzer := vision.NewAnalyzer(imageref.NewResolver(s3Client), provider, cfg.Vision)

	registry := tools.NewRegistry()
	if err := std.RegisterAll(registry, analyzer); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	server := mcp.NewServer(registry, "vision-mcp", serverVersion)

	// === ЗАПУСК ТРАНСПОРТА ===
	addr := *listenFlag
	if addr == "" && cfg.Server.Host != "" {
		addr = cfg.Server.Addr()
	}

	if addr != "" {
		utils.Info("serving http", "addr", addr, "model", modelDef.ModelName)
		return server.ServeHTTP(ctx, addr)
	}

	utils.Info("serving stdio", "model", modelDef.ModelName)
	return server.ServeStdio(ctx, os.Stdin, os.Stdout)
}
