package mcp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ilkoid/vision-mcp/pkg/utils"
)

// Максимальный размер одной строки stdio транспорта.
// Аргументы инструментов — это пути и текст, не байты картинок,
// но контекст диалога может быть длинным.
const maxLineBytes = 4 * 1024 * 1024

// ServeStdio гоняет протокол по строкам: одно JSON-RPC сообщение на строку.
//
// Блокируется до EOF на входе или отмены контекста. stdout занят
// протоколом, поэтому вся диагностика идет в файловый лог.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	utils.Info("stdio transport started")

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		resp := s.Handle(ctx, []byte(line))
		if resp == nil {
			continue
		}
		if _, err := out.Write(append(resp, '\n')); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}

	utils.Info("stdio transport closed")
	return nil
}
