// Package vision собирает запросы к vision модели и нормализует ответы
// в единый конверт {success, result|error, ...}.
package vision

import (
	"fmt"

	"github.com/ilkoid/vision-mcp/pkg/llm"
)

// DefaultQuery используется когда вызывающая сторона не передала query.
const DefaultQuery = "请描述这张图片的内容"

// DefaultSystemPrompt — системный промпт для анализа с контекстом диалога.
const DefaultSystemPrompt = "你是一个视觉分析助手，能够分析图像并结合上下文提供详细的信息。请用中文回答。"

// Turn — одна реплика контекста диалога.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Validate проверяет что роль из допустимого набора.
func (t Turn) Validate() error {
	switch t.Role {
	case llm.RoleUser, llm.RoleAssistant, llm.RoleSystem:
		return nil
	case "":
		return fmt.Errorf("context turn role is required")
	default:
		return fmt.Errorf("invalid context turn role %q: expected user, assistant or system", t.Role)
	}
}

// SimpleRequest — анализ одного изображения без контекста.
type SimpleRequest struct {
	Image string // Путь, URL или s3:// ссылка
	Query string // Пусто → DefaultQuery
}

// ContextualRequest — анализ изображения с учётом истории диалога.
// Все три поля обязательны, дефолтов нет.
type ContextualRequest struct {
	Context []Turn
	Image   string
	Query   string
}

// BuildSimple собирает сообщения для простого запроса:
// одно user сообщение с текстом запроса и изображением.
func BuildSimple(imageInput, query string) []llm.Message {
	return []llm.Message{
		{
			Role:    llm.RoleUser,
			Content: query,
			Images:  []string{imageInput},
		},
	}
}

// BuildContextual собирает сообщения для запроса с контекстом:
// системный промпт, затем реплики контекста строго в исходном порядке,
// затем финальное user сообщение с запросом и изображением.
//
// Реплики не перестраиваются, не дедуплицируются и не обрезаются —
// порядок истории семантически значим.
func BuildContextual(systemPrompt string, context []Turn, imageInput, query string) []llm.Message {
	messages := make([]llm.Message, 0, len(context)+2)

	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: systemPrompt,
	})

	for _, turn := range context {
		messages = append(messages, llm.Message{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: query,
		Images:  []string{imageInput},
	})

	return messages
}
