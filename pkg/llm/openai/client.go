// Package openai реализует адаптер vision провайдера для OpenAI-совместимых API.
//
// DashScope (compatible-mode), Zai, OpenAI — все ходят через один SDK,
// различаются только base_url и api_key в конфигурации.
// Работает только через интерфейс llm.Provider.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/ilkoid/vision-mcp/pkg/config"
	"github.com/ilkoid/vision-mcp/pkg/llm"
	"github.com/ilkoid/vision-mcp/pkg/utils"
)

// Client реализует интерфейс llm.Provider для OpenAI-совместимых API.
//
// Поддерживает Vision запросы: сообщения с картинками уходят как
// MultiContent с image_url частями.
type Client struct {
	api      *openai.Client
	modelDef config.ModelDef
	limiter  *rate.Limiter // nil если rate_limit не задан
}

// Проверка что Client реализует llm.Provider
var _ llm.Provider = (*Client)(nil)

// NewClient создает клиент на основе конфигурации модели.
//
// Все настройки из конфигурации, никакого хардкода: custom BaseURL
// для non-OpenAI провайдеров, timeout и rate limit per-model.
func NewClient(modelDef config.ModelDef) *Client {
	cfg := openai.DefaultConfig(modelDef.APIKey)
	if modelDef.BaseURL != "" {
		cfg.BaseURL = modelDef.BaseURL
	}

	var limiter *rate.Limiter
	if modelDef.RateLimit > 0 {
		// rate_limit в запросах/минуту → rate.Limit в запросах/секунду
		ratePerSec := float64(modelDef.RateLimit) / 60.0
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), modelDef.Burst)
	}

	return &Client{
		api:      openai.NewClientWithConfig(cfg),
		modelDef: modelDef,
		limiter:  limiter,
	}
}

// Chat выполняет один запрос к API и возвращает ответ модели.
//
// Одна попытка, без ретраев. Запрос ограничен timeout из конфигурации,
// отмена внешнего контекста обрывает HTTP запрос (SDK уважает ctx).
func (c *Client) Chat(ctx context.Context, messages []llm.Message) (llm.Completion, error) {
	if strings.TrimSpace(c.modelDef.APIKey) == "" {
		return llm.Completion{}, fmt.Errorf("%w: api key is not configured", llm.ErrAuth)
	}

	startTime := time.Now()
	utils.Debug("vision request started",
		"model", c.modelDef.ModelName,
		"messages_count", len(messages))

	// Rate limiter стоит перед вызовом: Wait уважает отмену контекста
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return llm.Completion{}, fmt.Errorf("%w: rate limiter wait: %v", llm.ErrTransport, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.modelDef.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:    c.modelDef.ModelName,
		Messages: make([]openai.ChatCompletionMessage, len(messages)),
	}
	for i, m := range messages {
		req.Messages[i] = mapToOpenAI(m)
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		classified := classifyError(err)
		utils.Error("vision api request failed",
			"error", classified,
			"model", c.modelDef.ModelName,
			"duration_ms", time.Since(startTime).Milliseconds())
		return llm.Completion{}, classified
	}

	if len(resp.Choices) == 0 {
		return llm.Completion{}, fmt.Errorf("%w: no choices in response", llm.ErrRemote)
	}

	// API сообщает какая модель реально отработала; fallback на конфиг
	modelUsed := resp.Model
	if modelUsed == "" {
		modelUsed = c.modelDef.ModelName
	}

	utils.Info("vision response received",
		"model", modelUsed,
		"content_length", len(resp.Choices[0].Message.Content),
		"duration_ms", time.Since(startTime).Milliseconds())

	return llm.Completion{
		Text:  resp.Choices[0].Message.Content,
		Model: modelUsed,
	}, nil
}

// mapToOpenAI конвертирует наше внутреннее сообщение в формат SDK.
// Здесь происходит магия Vision: если есть картинки, создаем MultiContent.
func mapToOpenAI(m llm.Message) openai.ChatCompletionMessage {
	msg := openai.ChatCompletionMessage{
		Role: m.Role,
	}

	// Если картинок нет, отправляем просто текст
	if len(m.Images) == 0 {
		msg.Content = m.Content
		return msg
	}

	parts := []openai.ChatMessagePart{
		{
			Type: openai.ChatMessagePartTypeText,
			Text: m.Content,
		},
	}

	for _, imgURL := range m.Images {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    imgURL, // base64 data-url или http(s) ссылка
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}

	msg.MultiContent = parts
	return msg
}

// classifyError переводит ошибку SDK в нашу таксономию.
//
//   - 401/403 → llm.ErrAuth
//   - прочие оформленные ответы API → llm.ErrRemote с текстом от сервиса
//   - сетевые сбои, timeout, отмена контекста → llm.ErrTransport
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403 {
			return fmt.Errorf("%w: %s", llm.ErrAuth, normalizeRemoteMessage(apiErr.Message))
		}
		return fmt.Errorf("%w: %s (status %d)",
			llm.ErrRemote, normalizeRemoteMessage(apiErr.Message), apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		// Не-2xx ответ, тело которого SDK не смог разобрать как error payload
		if reqErr.HTTPStatusCode == 401 || reqErr.HTTPStatusCode == 403 {
			return fmt.Errorf("%w: %s", llm.ErrAuth, normalizeRemoteMessage(reqErr.Error()))
		}
		return fmt.Errorf("%w: %s (status %d)",
			llm.ErrRemote, normalizeRemoteMessage(reqErr.Error()), reqErr.HTTPStatusCode)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", llm.ErrTransport, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", llm.ErrTransport, netErr)
	}

	// Всё остальное на этом уровне — сетевой слой (DNS, reset, обрыв тела)
	return fmt.Errorf("%w: %v", llm.ErrTransport, err)
}

// normalizeRemoteMessage приводит текст ошибки сервиса к человекочитаемому виду.
// Сервисы отдают error payload в разнородных форматах, пустое сообщение
// заменяется явным fallback.
func normalizeRemoteMessage(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "unknown remote error"
	}
	return msg
}
