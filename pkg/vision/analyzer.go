package vision

import (
	"context"

	"github.com/ilkoid/vision-mcp/pkg/config"
	"github.com/ilkoid/vision-mcp/pkg/imageref"
	"github.com/ilkoid/vision-mcp/pkg/llm"
	"github.com/ilkoid/vision-mcp/pkg/utils"
)

// Analyzer — ядро оркестрации: резолв ссылки → сборка сообщений →
// вызов провайдера → конверт.
//
// Без состояния между вызовами, безопасен для конкурентного
// использования: резолвер и провайдер read-only после создания.
type Analyzer struct {
	resolver     *imageref.Resolver
	provider     llm.Provider
	systemPrompt string
	defaultQuery string
}

// NewAnalyzer создаёт сервис анализа. Пустые поля VisionConfig
// заменяются дефолтными промптами.
func NewAnalyzer(resolver *imageref.Resolver, provider llm.Provider, cfg config.VisionConfig) *Analyzer {
	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	defaultQuery := cfg.DefaultQuery
	if defaultQuery == "" {
		defaultQuery = DefaultQuery
	}

	return &Analyzer{
		resolver:     resolver,
		provider:     provider,
		systemPrompt: systemPrompt,
		defaultQuery: defaultQuery,
	}
}

// DefaultQueryText возвращает действующий дефолтный query
// (для описаний инструментов).
func (a *Analyzer) DefaultQueryText() string {
	return a.defaultQuery
}

// Analyze выполняет простой анализ изображения.
//
// Валидация ссылки происходит ДО похода к провайдеру: несуществующий,
// слишком большой или неподдерживаемый файл не тратит remote вызов.
func (a *Analyzer) Analyze(ctx context.Context, req SimpleRequest) Envelope {
	query := req.Query
	if query == "" {
		query = a.defaultQuery
	}

	utils.Info("analyze started", "image", req.Image)

	validated, err := a.resolver.Resolve(ctx, req.Image)
	if err != nil {
		return Failure(err)
	}

	imageInput, err := a.imageInput(ctx, validated)
	if err != nil {
		return Failure(err)
	}

	completion, err := a.provider.Chat(ctx, BuildSimple(imageInput, query))
	if err != nil {
		return Failure(err)
	}

	utils.Info("analyze completed", "image", req.Image, "model", completion.Model)

	return Envelope{
		Success:   true,
		Result:    completion.Text,
		ImagePath: req.Image,
		Model:     completion.Model,
	}
}

// AnalyzeWithContext выполняет анализ с учётом истории диалога.
//
// Контекст и query обязательны: это ошибка вызывающей стороны, а не
// повод для дефолтов. Реплики попадают в запрос в исходном порядке.
func (a *Analyzer) AnalyzeWithContext(ctx context.Context, req ContextualRequest) Envelope {
	if len(req.Context) == 0 {
		return Failuref("context is required")
	}
	if req.Query == "" {
		return Failuref("query is required")
	}
	for i, turn := range req.Context {
		if err := turn.Validate(); err != nil {
			return Failuref("context[%d]: %v", i, err)
		}
	}

	utils.Info("contextual analyze started", "image", req.Image, "turns", len(req.Context))

	validated, err := a.resolver.Resolve(ctx, req.Image)
	if err != nil {
		return Failure(err)
	}

	imageInput, err := a.imageInput(ctx, validated)
	if err != nil {
		return Failure(err)
	}

	messages := BuildContextual(a.systemPrompt, req.Context, imageInput, req.Query)
	completion, err := a.provider.Chat(ctx, messages)
	if err != nil {
		return Failure(err)
	}

	utils.Info("contextual analyze completed", "image", req.Image, "model", completion.Model)

	return Envelope{
		Success:   true,
		Result:    completion.Text,
		ImagePath: req.Image,
		Model:     completion.Model,
	}
}

// Check возвращает метаданные изображения без обращения к провайдеру.
//
// URL ссылки сообщают только type=url: их существование проверяет
// провайдер при реальном анализе.
func (a *Analyzer) Check(ctx context.Context, imagePath string) Envelope {
	validated, err := a.resolver.Resolve(ctx, imagePath)
	if err != nil {
		return Failure(err)
	}

	if validated.Kind == imageref.KindRemote {
		return Envelope{
			Success:   true,
			ImagePath: imagePath,
			Type:      "url",
		}
	}

	return Envelope{
		Success:   true,
		ImagePath: imagePath,
		Size:      validated.Size,
		Format:    validated.Format,
		Type:      string(validated.Kind),
	}
}

// Policy возвращает статическую политику форматов и размера.
// Никогда не падает и не зависит от входа.
func (a *Analyzer) Policy() Envelope {
	return Envelope{
		Success:   true,
		Formats:   imageref.SupportedFormats(),
		MaxSizeMB: imageref.MaxSizeMB,
	}
}

// imageInput превращает валидированную ссылку в форму, которую принимает
// remote API: http(s) URL как есть, local/s3 — base64 data-url.
func (a *Analyzer) imageInput(ctx context.Context, v imageref.ValidatedImage) (string, error) {
	if v.Kind == imageref.KindRemote {
		return v.Ref, nil
	}
	return a.resolver.DataURL(ctx, v)
}
