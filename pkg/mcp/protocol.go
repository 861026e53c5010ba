// Проводной формат MCP: JSON-RPC 2.0 поверх stdio или HTTP.
package mcp

import "encoding/json"

const (
	// ProtocolVersion — версия протокола, которую сервер объявляет в initialize.
	ProtocolVersion = "2024-11-05"

	jsonrpcVersion = "2.0"
)

// Стандартные коды ошибок JSON-RPC 2.0.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// request — входящий запрос или нотификация (ID == nil).
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// isNotification: у нотификаций нет id, ответ на них не пишется.
func (r request) isNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// serverInfo — представление сервера в handshake.
type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type toolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

type capabilities struct {
	Tools toolsCapability `json:"tools"`
}

type initializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    capabilities `json:"capabilities"`
	ServerInfo      serverInfo   `json:"serverInfo"`
}

// callParams — параметры tools/call. Arguments оставляем сырыми:
// строгий разбор делает сам инструмент.
type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// contentItem — элемент содержимого результата инструмента.
type contentItem struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// callResult — результат tools/call. Ошибки домена (файл не найден,
// недоступный API) приходят сюда с IsError=true, а не как ошибка JSON-RPC.
type callResult struct {
	Content []contentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

func newResult(id json.RawMessage, result any) response {
	return response{JSONRPC: jsonrpcVersion, ID: id, Result: result}
}

func newError(id json.RawMessage, code int, message string) response {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	return response{JSONRPC: jsonrpcVersion, ID: id, Error: &rpcError{Code: code, Message: message}}
}
