// Интерфейс Провайдера через который работает всё приложение.

package llm

import "context"

// Provider — контракт для любого vision AI-сервиса.
//
// Одна попытка на вызов: провайдер не ретраит сам, решение о повторе
// принимает вызывающая сторона (по умолчанию — никто).
type Provider interface {
	// Chat отправляет упорядоченные сообщения и возвращает ответ модели.
	// Ошибки классифицируются сентинелами ErrAuth/ErrTransport/ErrRemote.
	Chat(ctx context.Context, messages []Message) (Completion, error)
}
