// Реестр для хранения и поиска инструментов.
package tools

import (
	"fmt"
	"sort"
	"sync"
)

// Registry — потокобезопасное хранилище инструментов.
//
// MCP хост может слать конкурентные tools/call: чтение реестра идёт
// под RWMutex, регистрация происходит один раз при старте.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry создает новый пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// validateToolDefinition проверяет что ToolDefinition соответствует JSON Schema.
//
// Валидирует:
//   - Name не пустой
//   - InputSchema не nil
//   - InputSchema.type == "object"
//   - InputSchema.required (если есть) является массивом строк
func validateToolDefinition(def ToolDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	if def.InputSchema == nil {
		return fmt.Errorf("tool '%s': input schema cannot be nil", def.Name)
	}

	typeVal, ok := def.InputSchema["type"]
	if !ok {
		return fmt.Errorf("tool '%s': input schema must have 'type' field", def.Name)
	}
	typeStr, ok := typeVal.(string)
	if !ok {
		return fmt.Errorf("tool '%s': inputSchema.type must be a string, got: %T", def.Name, typeVal)
	}
	if typeStr != "object" {
		return fmt.Errorf("tool '%s': inputSchema.type must be 'object', got: '%s'", def.Name, typeStr)
	}

	if requiredVal, exists := def.InputSchema["required"]; exists {
		switch required := requiredVal.(type) {
		case []string:
			// ok
		case []any:
			// Схема может прийти из разобранного JSON
			for i, item := range required {
				if _, ok := item.(string); !ok {
					return fmt.Errorf("tool '%s': inputSchema.required[%d] must be a string, got: %T", def.Name, i, item)
				}
			}
		default:
			return fmt.Errorf("tool '%s': inputSchema.required must be an array of strings", def.Name)
		}
	}

	return nil
}

// Register добавляет инструмент в реестр с валидацией схемы.
//
// Возвращает ошибку если определение инструмента не валидно.
func (r *Registry) Register(tool Tool) error {
	def := tool.Definition()

	if err := validateToolDefinition(def); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[def.Name] = tool
	return nil
}

// Get ищет инструмент по имени.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("tool '%s' not found", name)
	}
	return tool, nil
}

// GetDefinitions возвращает список всех определений для tools/list.
// Отсортирован по имени: список стабилен между вызовами.
func (r *Registry) GetDefinitions() []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.Definition())
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
