// Package imageref классифицирует и валидирует ссылки на изображения.
//
// Ссылка — это строка одного из трёх видов:
//   - http(s) URL  → remote, передаётся провайдеру как есть, без проверок
//   - s3://bucket/key → объект в хранилище (stat + политика формата/размера)
//   - всё остальное → локальный путь (существование + политика)
//
// Политика формата и размера зашита константами: она же отдаётся наружу
// через list_supported_image_formats и обязана быть неизменной между вызовами.
package imageref

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilkoid/vision-mcp/pkg/s3storage"
)

// MaxSizeBytes — жёсткий лимит размера изображения (лимит DashScope).
const MaxSizeBytes = 20 * 1024 * 1024

// MaxSizeMB — тот же лимит для политики list_supported_image_formats.
const MaxSizeMB = 20

// supportedFormats — допустимые расширения, без точки, в нижнем регистре.
var supportedFormats = []string{"jpeg", "jpg", "png", "webp", "gif"}

// Класс ошибок валидации. Проверяется через errors.Is.
var (
	ErrNotFound          = errors.New("image file not found")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrTooLarge          = errors.New("image file too large")
)

// Kind — вид ссылки после классификации.
type Kind string

const (
	KindLocal  Kind = "local"
	KindRemote Kind = "remote"
	KindS3     Kind = "s3"
)

// ValidatedImage — ссылка, прошедшая классификацию и валидацию.
type ValidatedImage struct {
	Ref    string // Исходная строка ссылки
	Kind   Kind
	Size   int64  // Байты; 0 для remote (существование не проверяется)
	Format string // Расширение с точкой (".png"); пусто для remote
}

// Resolver валидирует ссылки. Без состояния между вызовами,
// безопасен для конкурентного использования.
type Resolver struct {
	s3 s3storage.ClientInterface // nil если хранилище не настроено
}

// NewResolver создаёт резолвер. s3 может быть nil —
// тогда s3:// ссылки отклоняются с ошибкой конфигурации.
func NewResolver(s3 s3storage.ClientInterface) *Resolver {
	return &Resolver{s3: s3}
}

// SupportedFormats возвращает копию списка допустимых форматов.
func SupportedFormats() []string {
	out := make([]string, len(supportedFormats))
	copy(out, supportedFormats)
	return out
}

// IsURL сообщает является ли ссылка http(s) URL.
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// isS3 сообщает является ли ссылка объектом хранилища.
func isS3(ref string) bool {
	return strings.HasPrefix(ref, "s3://")
}

// Resolve классифицирует ссылку и проверяет инварианты.
//
// Только read-only stat, байты изображения не читаются. Для remote
// ссылок проверок нет: загрузку делает провайдер vision модели.
func (r *Resolver) Resolve(ctx context.Context, ref string) (ValidatedImage, error) {
	if strings.TrimSpace(ref) == "" {
		return ValidatedImage{}, fmt.Errorf("%w: empty image path", ErrNotFound)
	}

	if IsURL(ref) {
		return ValidatedImage{Ref: ref, Kind: KindRemote}, nil
	}

	if isS3(ref) {
		return r.resolveS3(ctx, ref)
	}

	return resolveLocal(ref)
}

// resolveLocal валидирует локальный путь: существование, формат, размер.
func resolveLocal(ref string) (ValidatedImage, error) {
	info, err := os.Stat(ref)
	if err != nil {
		if os.IsNotExist(err) {
			return ValidatedImage{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
		return ValidatedImage{}, fmt.Errorf("failed to stat %s: %w", ref, err)
	}
	if !info.Mode().IsRegular() {
		return ValidatedImage{}, fmt.Errorf("%w: %s is not a regular file", ErrNotFound, ref)
	}

	format, err := checkFormat(ref)
	if err != nil {
		return ValidatedImage{}, err
	}

	if info.Size() > MaxSizeBytes {
		return ValidatedImage{}, fmt.Errorf("%w: %s is %d bytes, max %d bytes",
			ErrTooLarge, ref, info.Size(), MaxSizeBytes)
	}

	return ValidatedImage{
		Ref:    ref,
		Kind:   KindLocal,
		Size:   info.Size(),
		Format: format,
	}, nil
}

// resolveS3 валидирует s3:// ссылку: конфигурация, формат, stat, размер.
func (r *Resolver) resolveS3(ctx context.Context, ref string) (ValidatedImage, error) {
	if r.s3 == nil {
		return ValidatedImage{}, fmt.Errorf("s3 storage is not configured, cannot resolve %s", ref)
	}

	bucket, key, err := parseS3Ref(ref)
	if err != nil {
		return ValidatedImage{}, err
	}

	format, err := checkFormat(key)
	if err != nil {
		return ValidatedImage{}, err
	}

	obj, err := r.s3.StatFile(ctx, bucket, key)
	if err != nil {
		return ValidatedImage{}, fmt.Errorf("%w: %s (%v)", ErrNotFound, ref, err)
	}

	if obj.Size > MaxSizeBytes {
		return ValidatedImage{}, fmt.Errorf("%w: %s is %d bytes, max %d bytes",
			ErrTooLarge, ref, obj.Size, MaxSizeBytes)
	}

	return ValidatedImage{
		Ref:    ref,
		Kind:   KindS3,
		Size:   obj.Size,
		Format: format,
	}, nil
}

// parseS3Ref разбирает s3://bucket/key на составляющие.
func parseS3Ref(ref string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(ref, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid s3 reference %q: expected s3://bucket/key", ref)
	}
	return parts[0], parts[1], nil
}

// checkFormat проверяет расширение против политики. Регистронезависимо.
func checkFormat(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	trimmed := strings.TrimPrefix(ext, ".")
	for _, f := range supportedFormats {
		if trimmed == f {
			return ext, nil
		}
	}
	return "", fmt.Errorf("%w: %q (supported: %s)",
		ErrUnsupportedFormat, ext, strings.Join(supportedFormats, ", "))
}

// DataURL читает байты изображения и кодирует их в base64 data-url.
//
// Вызывается только для local и s3 ссылок; remote URL провайдер
// загружает сам. MIME тип берётся из расширения, а не хардкодом
// image/jpeg: png/webp/gif должны уходить со своим типом.
func (r *Resolver) DataURL(ctx context.Context, v ValidatedImage) (string, error) {
	var data []byte
	var err error

	switch v.Kind {
	case KindLocal:
		data, err = os.ReadFile(v.Ref)
		if err != nil {
			return "", fmt.Errorf("failed to read image %s: %w", v.Ref, err)
		}
	case KindS3:
		bucket, key, perr := parseS3Ref(v.Ref)
		if perr != nil {
			return "", perr
		}
		if r.s3 == nil {
			return "", fmt.Errorf("s3 storage is not configured, cannot download %s", v.Ref)
		}
		data, err = r.s3.DownloadFile(ctx, bucket, key)
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("data-url encoding is not applicable to %s reference %s", v.Kind, v.Ref)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("data:%s;base64,%s", mimeByExt(v.Format), encoded), nil
}

// mimeByExt возвращает MIME тип по расширению из политики.
func mimeByExt(ext string) string {
	switch strings.TrimPrefix(ext, ".") {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	case "gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
