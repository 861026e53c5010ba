package std

import (
	"context"
	"fmt"

	"github.com/ilkoid/vision-mcp/pkg/tools"
	"github.com/ilkoid/vision-mcp/pkg/vision"
)

// AnalyzeImageFromContextTool — анализ изображения с учётом истории диалога.
//
// В отличие от analyze_image все три аргумента обязательны: отсутствие
// context или query — ошибка вызывающей стороны, дефолты не подставляются.
type AnalyzeImageFromContextTool struct {
	analyzer *vision.Analyzer
}

// NewAnalyzeImageFromContextTool создаёт tool поверх ядра анализа.
func NewAnalyzeImageFromContextTool(analyzer *vision.Analyzer) *AnalyzeImageFromContextTool {
	return &AnalyzeImageFromContextTool{analyzer: analyzer}
}

// Definition возвращает описание tool для tools/list.
func (t *AnalyzeImageFromContextTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name: "analyze_image_from_context",
		Description: "Анализирует изображение с учётом контекста диалога. Реплики " +
			"контекста передаются модели в исходном порядке перед вопросом.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"context": map[string]any{
					"type":        "array",
					"description": "Упорядоченная история диалога",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"role":    map[string]any{"type": "string", "enum": []string{"user", "assistant", "system"}},
							"content": map[string]any{"type": "string"},
						},
						"required": []string{"role", "content"},
					},
				},
				"image_path": map[string]any{
					"type":        "string",
					"description": "Путь к файлу изображения, URL или s3://bucket/key",
				},
				"query": map[string]any{
					"type":        "string",
					"description": "Вопрос об изображении",
				},
			},
			"required": []string{"context", "image_path", "query"},
		},
	}
}

// Execute выполняет анализ с контекстом (Raw In, String Out).
func (t *AnalyzeImageFromContextTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	return respond(func() vision.Envelope {
		var args struct {
			Context   []vision.Turn `json:"context"`
			ImagePath string        `json:"image_path"`
			Query     string        `json:"query"`
		}
		if err := decodeArgs(argsJSON, &args); err != nil {
			return vision.Failure(err)
		}
		if args.ImagePath == "" {
			return vision.Failure(fmt.Errorf("image_path is required"))
		}

		return t.analyzer.AnalyzeWithContext(ctx, vision.ContextualRequest{
			Context: args.Context,
			Image:   args.ImagePath,
			Query:   args.Query,
		})
	})
}
