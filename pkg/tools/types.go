// Интерфейс Tool и структуры определений.

package tools

import "context"

// JSONSchema представляет JSON Schema для параметров инструмента.
//
// Формат соответствует JSON Schema specification: такие схемы уходят
// клиенту в ответе tools/list.
type JSONSchema map[string]any

// ToolDefinition описывает инструмент для MCP клиента.
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema JSONSchema `json:"inputSchema"` // JSON Schema объекта аргументов
}

// Tool — контракт, который должен реализовать любой инструмент.
type Tool interface {
	// Definition возвращает описание инструмента для tools/list.
	Definition() ToolDefinition

	// Execute выполняет логику инструмента.
	// argsJSON — это сырой JSON с аргументами из tools/call.
	// Возвращает JSON конверта {success, result|error, ...}.
	// Доменные сбои НЕ возвращаются ошибкой Go — они уезжают в конверт;
	// error зарезервирован для сбоев самого диспетчера.
	Execute(ctx context.Context, argsJSON string) (string, error)
}
