package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupGracefulShutdown устанавливает обработчик SIGINT/SIGTERM.
//
// При получении сигнала отменяется переданный контекст: все висящие
// запросы к vision API обрываются через ctx, сервер завершает работу.
//
// Возвращает функцию которую следует вызвать через defer для
// освобождения ресурсов (закрытие лог-файла):
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer SetupGracefulShutdown(cancel)()
func SetupGracefulShutdown(cancel context.CancelFunc) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		Info("Received signal, shutting down gracefully", "signal", sig.String())
		cancel()
	}()

	return func() {
		Close()
	}
}
