package llm

import "errors"

// Таксономия ошибок удалённого вызова.
//
// Адаптеры оборачивают конкретную причину через fmt.Errorf("...: %w", ...),
// вызывающая сторона проверяет класс через errors.Is.
var (
	// ErrAuth — credential отсутствует или отвергнут сервисом (401/403).
	ErrAuth = errors.New("vision api auth error")

	// ErrTransport — сетевой сбой: timeout, connection reset, DNS, отмена контекста.
	ErrTransport = errors.New("vision api transport error")

	// ErrRemote — сервис вернул оформленную ошибку (не-2xx статус или error payload).
	ErrRemote = errors.New("vision api remote error")
)
