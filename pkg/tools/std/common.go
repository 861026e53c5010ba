// Package std предоставляет MCP инструменты анализа изображений.
//
// Каждый инструмент — тонкая обёртка над vision.Analyzer: разбор
// аргументов, вызов ядра, конверт наружу. Единственная граница где
// ловится всё: ни ошибка, ни паника не пересекают границу инструмента
// иначе как строкой в поле error конверта.
package std

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ilkoid/vision-mcp/pkg/utils"
	"github.com/ilkoid/vision-mcp/pkg/vision"
)

// respond выполняет fn и сериализует конверт.
//
// Catch-all граница диспетчера: паника из нижних слоёв превращается
// в failure конверт, а не валит хост-процесс.
func respond(fn func() vision.Envelope) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			utils.Error("tool panicked", "panic", r)
			out = vision.Failuref("internal error: %v", r).JSON()
			err = nil
		}
	}()

	return fn().JSON(), nil
}

// decodeArgs строго разбирает JSON аргументов инструмента.
//
// Неизвестные поля отклоняются: лучше структурная ошибка сразу, чем
// молча проигнорированный аргумент.
func decodeArgs(argsJSON string, dst any) error {
	if strings.TrimSpace(argsJSON) == "" {
		argsJSON = "{}"
	}

	dec := json.NewDecoder(strings.NewReader(argsJSON))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid arguments: %v", err)
	}
	return nil
}
