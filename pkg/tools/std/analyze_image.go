package std

import (
	"context"
	"fmt"

	"github.com/ilkoid/vision-mcp/pkg/tools"
	"github.com/ilkoid/vision-mcp/pkg/vision"
)

// AnalyzeImageTool — анализ одного изображения vision моделью.
//
// image_path принимает локальный путь, http(s) URL или s3:// ссылку.
// query опционален, при отсутствии подставляется дефолтный вопрос.
type AnalyzeImageTool struct {
	analyzer *vision.Analyzer
}

// NewAnalyzeImageTool создаёт tool поверх ядра анализа.
func NewAnalyzeImageTool(analyzer *vision.Analyzer) *AnalyzeImageTool {
	return &AnalyzeImageTool{analyzer: analyzer}
}

// Definition возвращает описание tool для tools/list.
func (t *AnalyzeImageTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name: "analyze_image",
		Description: "Анализирует содержимое изображения vision моделью и возвращает " +
			"текстовое описание. Принимает локальный путь, http(s) URL или s3:// ссылку.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"image_path": map[string]any{
					"type":        "string",
					"description": "Путь к файлу изображения, URL или s3://bucket/key",
				},
				"query": map[string]any{
					"type":        "string",
					"description": "Вопрос об изображении",
					"default":     t.analyzer.DefaultQueryText(),
				},
			},
			"required": []string{"image_path"},
		},
	}
}

// Execute выполняет анализ (Raw In, String Out).
func (t *AnalyzeImageTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	return respond(func() vision.Envelope {
		var args struct {
			ImagePath string `json:"image_path"`
			Query     string `json:"query"`
		}
		if err := decodeArgs(argsJSON, &args); err != nil {
			return vision.Failure(err)
		}
		if args.ImagePath == "" {
			return vision.Failure(fmt.Errorf("image_path is required"))
		}

		return t.analyzer.Analyze(ctx, vision.SimpleRequest{
			Image: args.ImagePath,
			Query: args.Query,
		})
	})
}
