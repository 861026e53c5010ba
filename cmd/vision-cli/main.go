// Vision CLI — standalone утилита для анализа одного изображения.
//
// Использует тот же config.yaml что и сервер, печатает конверт
// результата в stdout как JSON. Удобна для проверки конфига и ключей
// без MCP хоста.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilkoid/vision-mcp/pkg/config"
	"github.com/ilkoid/vision-mcp/pkg/factory"
	"github.com/ilkoid/vision-mcp/pkg/imageref"
	"github.com/ilkoid/vision-mcp/pkg/s3storage"
	"github.com/ilkoid/vision-mcp/pkg/utils"
	"github.com/ilkoid/vision-mcp/pkg/vision"
)

var (
	configFlag  = flag.String("config", "", "Path to config.yaml (default: next to binary)")
	imageFlag   = flag.String("image", "", "Image to analyze: local path, http(s):// URL or s3://bucket/key")
	queryFlag   = flag.String("query", "", "Question about the image (default: from config)")
	modelFlag   = flag.String("model", "", "Vision model alias from config (default: models.default_vision)")
	timeoutFlag = flag.Duration("timeout", 2*time.Minute, "Overall timeout for the analysis")
	checkFlag   = flag.Bool("check", false, "Only validate the image, do not call the model")
)

func main() {
	flag.Parse()

	// === КОНФИГУРАЦИЯ И ЛОГГЕР ===
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

	if err := utils.InitLogger(cfg.App.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "Logger init failed: %v\n", err)
	}
	defer utils.Close()

	image := *imageFlag
	if image == "" && len(flag.Args()) > 0 {
		// Изображение можно передать позиционным аргументом
		image = flag.Arg(0)
	}
	if image == "" {
		fmt.Fprintln(os.Stderr, "Image is required. Use -image flag or pass as argument.")
		os.Exit(1)
	}

	utils.Info("vision-cli started", "config", cfgPath, "image", image)

	// === СБОРКА ===
	modelDef, ok := cfg.GetVisionModel(*modelFlag)
	if !ok {
		fmt.Fprintf(os.Stderr, "Vision model '%s' is not defined in config\n", *modelFlag)
		os.Exit(1)
	}

	provider, err := factory.NewVisionProvider(modelDef)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create vision provider: %v\n", err)
		os.Exit(1)
	}

	var s3Client s3storage.ClientInterface
	if cfg.S3.Enabled() {
		client, err := s3storage.New(cfg.S3)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create s3 client: %v\n", err)
			os.Exit(1)
		}
		s3Client = client
	}

	analyzer := vision.NewAnalyzer(imageref.NewResolver(s3Client), provider, cfg.Vision)

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	// === ВЫПОЛНЕНИЕ ===
	var envelope vision.Envelope
	if *checkFlag {
		envelope = analyzer.Check(ctx, image)
	} else {
		envelope = analyzer.Analyze(ctx, vision.SimpleRequest{Image: image, Query: *queryFlag})
	}

	fmt.Println(envelope.JSON())

	if !envelope.Success {
		os.Exit(1)
	}
}
