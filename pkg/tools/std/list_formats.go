package std

import (
	"context"

	"github.com/ilkoid/vision-mcp/pkg/tools"
	"github.com/ilkoid/vision-mcp/pkg/vision"
)

// ListFormatsTool — статическая политика форматов и размера.
//
// Никогда не падает и не зависит от входа: аргументы игнорируются.
type ListFormatsTool struct {
	analyzer *vision.Analyzer
}

// NewListFormatsTool создаёт tool.
func NewListFormatsTool(analyzer *vision.Analyzer) *ListFormatsTool {
	return &ListFormatsTool{analyzer: analyzer}
}

// Definition возвращает описание tool для tools/list.
func (t *ListFormatsTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "list_supported_image_formats",
		Description: "Возвращает список поддерживаемых форматов изображений и лимит размера.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

// Execute возвращает политику (Raw In, String Out).
func (t *ListFormatsTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	return respond(func() vision.Envelope {
		return t.analyzer.Policy()
	})
}
