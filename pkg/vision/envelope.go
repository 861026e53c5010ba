package vision

import (
	"encoding/json"
	"fmt"
)

// Envelope — единый конверт ответа каждого MCP инструмента.
//
// Инвариант: Success=true ⇔ заполнен Result и пуст Error, и наоборот.
// Никакая ошибка не пересекает границу инструмента иначе как строкой
// в поле Error.
type Envelope struct {
	Success   bool     `json:"success"`
	Result    string   `json:"result,omitempty"`
	Error     string   `json:"error,omitempty"`
	ImagePath string   `json:"image_path,omitempty"`
	Model     string   `json:"model,omitempty"`
	Size      int64    `json:"size,omitempty"`
	Format    string   `json:"format,omitempty"`
	Type      string   `json:"type,omitempty"`
	Formats   []string `json:"formats,omitempty"`
	MaxSizeMB int      `json:"max_size_mb,omitempty"`
}

// Failure строит конверт с человекочитаемой ошибкой.
func Failure(err error) Envelope {
	return Envelope{
		Success: false,
		Error:   err.Error(),
	}
}

// Failuref строит конверт с отформатированной ошибкой.
func Failuref(format string, args ...any) Envelope {
	return Envelope{
		Success: false,
		Error:   fmt.Sprintf(format, args...),
	}
}

// JSON сериализует конверт. Маршалинг конверта из примитивов не падает,
// но на всякий случай ошибка превращается в минимальный failure JSON.
func (e Envelope) JSON() string {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to encode response: %v"}`, err)
	}
	return string(data)
}
