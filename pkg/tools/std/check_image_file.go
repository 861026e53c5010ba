package std

import (
	"context"
	"fmt"

	"github.com/ilkoid/vision-mcp/pkg/tools"
	"github.com/ilkoid/vision-mcp/pkg/vision"
)

// CheckImageFileTool — проверка доступности изображения без анализа.
//
// Возвращает метаданные (размер, формат) для локальных и s3 ссылок;
// remote URL не проверяется и сообщает только type=url.
type CheckImageFileTool struct {
	analyzer *vision.Analyzer
}

// NewCheckImageFileTool создаёт tool.
func NewCheckImageFileTool(analyzer *vision.Analyzer) *CheckImageFileTool {
	return &CheckImageFileTool{analyzer: analyzer}
}

// Definition возвращает описание tool для tools/list.
func (t *CheckImageFileTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "check_image_file",
		Description: "Проверяет что файл изображения существует и проходит политику формата/размера. Remote вызов не выполняется.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"image_path": map[string]any{
					"type":        "string",
					"description": "Путь к файлу изображения, URL или s3://bucket/key",
				},
			},
			"required": []string{"image_path"},
		},
	}
}

// Execute выполняет проверку (Raw In, String Out).
func (t *CheckImageFileTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	return respond(func() vision.Envelope {
		var args struct {
			ImagePath string `json:"image_path"`
		}
		if err := decodeArgs(argsJSON, &args); err != nil {
			return vision.Failure(err)
		}
		if args.ImagePath == "" {
			return vision.Failure(fmt.Errorf("image_path is required"))
		}

		return t.analyzer.Check(ctx, args.ImagePath)
	})
}
