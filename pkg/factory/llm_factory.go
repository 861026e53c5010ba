package factory

import (
	"fmt"

	"github.com/ilkoid/vision-mcp/pkg/config"
	"github.com/ilkoid/vision-mcp/pkg/llm"
	"github.com/ilkoid/vision-mcp/pkg/llm/openai"
)

// NewVisionProvider создает провайдера на основе конфигурации модели.
//
// DashScope compatible-mode, Zai и DeepSeek — это OpenAI-совместимые
// API, для них отличается только base_url.
func NewVisionProvider(modelDef config.ModelDef) (llm.Provider, error) {
	switch modelDef.Provider {
	case "openai", "dashscope", "zai", "deepseek":
		return openai.NewClient(modelDef), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s", modelDef.Provider)
	}
}
