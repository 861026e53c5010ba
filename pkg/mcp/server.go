package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ilkoid/vision-mcp/pkg/tools"
	"github.com/ilkoid/vision-mcp/pkg/utils"
)

// === MCP СЕРВЕР ===

// Server обрабатывает запросы MCP хоста и маршрутизирует tools/call
// в реестр инструментов. Сам транспорт (stdio или HTTP) живет отдельно.
type Server struct {
	registry *tools.Registry
	name     string
	version  string
}

// NewServer создает сервер поверх готового реестра инструментов.
func NewServer(registry *tools.Registry, name, version string) *Server {
	return &Server{
		registry: registry,
		name:     name,
		version:  version,
	}
}

// Handle обрабатывает одно сырое JSON-RPC сообщение.
//
// Возвращает сериализованный ответ или nil для нотификаций.
// Ошибки протокола (битый JSON, неизвестный метод) уходят как ошибки
// JSON-RPC; ошибки домена инструменты упаковывают сами.
func (s *Server) Handle(ctx context.Context, raw []byte) []byte {
	var req request
	if err := json.Unmarshal(raw, &req); err != nil {
		return mustMarshal(newError(nil, codeParseError, fmt.Sprintf("parse error: %v", err)))
	}
	if req.JSONRPC != jsonrpcVersion || req.Method == "" {
		return mustMarshal(newError(req.ID, codeInvalidRequest, "invalid request"))
	}

	utils.Debug("mcp request", "method", req.Method)

	switch req.Method {
	case "initialize":
		return mustMarshal(newResult(req.ID, initializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    capabilities{Tools: toolsCapability{ListChanged: false}},
			ServerInfo:      serverInfo{Name: s.name, Version: s.version},
		}))

	case "notifications/initialized", "notifications/cancelled":
		// Нотификации подтверждения: ответа не требуют
		return nil

	case "ping":
		return mustMarshal(newResult(req.ID, struct{}{}))

	case "tools/list":
		return mustMarshal(newResult(req.ID, map[string]any{
			"tools": s.registry.GetDefinitions(),
		}))

	case "tools/call":
		return s.handleToolsCall(ctx, req)

	default:
		if req.isNotification() {
			return nil
		}
		return mustMarshal(newError(req.ID, codeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method)))
	}
}

func (s *Server) handleToolsCall(ctx context.Context, req request) []byte {
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return mustMarshal(newError(req.ID, codeInvalidParams, fmt.Sprintf("invalid tools/call params: %v", err)))
	}
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return mustMarshal(newError(req.ID, codeInvalidParams, "tools/call params.name is required"))
	}

	tool, err := s.registry.Get(params.Name)
	if err != nil {
		// Неизвестный инструмент — это результат с isError,
		// а не протокольная ошибка: хост должен увидеть текст
		return mustMarshal(newResult(req.ID, callResult{
			IsError: true,
			Content: []contentItem{{Type: "text", Text: err.Error()}},
		}))
	}

	out, err := tool.Execute(ctx, string(params.Arguments))
	if err != nil {
		utils.Error("tool execution fault", "tool", params.Name, "error", err)
		return mustMarshal(newError(req.ID, codeInternalError, "internal server error"))
	}

	utils.Info("tool call", "tool", params.Name, "success", envelopeSucceeded(out))

	return mustMarshal(newResult(req.ID, callResult{
		IsError: !envelopeSucceeded(out),
		Content: []contentItem{{Type: "text", Text: out}},
	}))
}

// envelopeSucceeded подсматривает поле success в JSON конверта инструмента.
func envelopeSucceeded(raw string) bool {
	var probe struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return false
	}
	return probe.Success
}

func mustMarshal(resp response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		// Достижимо только при ошибке в самих типах ответа
		return []byte(`{"jsonrpc":"2.0","id":null,"error":{"code":-32603,"message":"internal server error"}}`)
	}
	return data
}
