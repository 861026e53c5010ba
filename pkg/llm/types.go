// Базовые типы - универсальный язык общения с vision моделями
package llm

// Message — одно сообщение запроса.
type Message struct {
	Role    string   // "system", "user", "assistant"
	Content string   // Текстовая часть
	Images  []string // Ссылки на изображения: http(s) URL или base64 data-url
}

// Completion — результат удачного вызова модели.
type Completion struct {
	Text  string // Текст анализа
	Model string // Идентификатор модели, фактически вернувшийся из API
}

// Константы ролей для удобства
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
