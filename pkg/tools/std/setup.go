package std

import (
	"fmt"

	"github.com/ilkoid/vision-mcp/pkg/tools"
	"github.com/ilkoid/vision-mcp/pkg/vision"
)

// RegisterAll регистрирует все инструменты сервера в реестре.
func RegisterAll(registry *tools.Registry, analyzer *vision.Analyzer) error {
	all := []tools.Tool{
		NewAnalyzeImageTool(analyzer),
		NewAnalyzeImageFromContextTool(analyzer),
		NewListFormatsTool(analyzer),
		NewCheckImageFileTool(analyzer),
	}

	for _, t := range all {
		if err := registry.Register(t); err != nil {
			return fmt.Errorf("failed to register tool: %w", err)
		}
	}

	return nil
}
