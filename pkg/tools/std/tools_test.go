package std

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkoid/vision-mcp/pkg/config"
	"github.com/ilkoid/vision-mcp/pkg/imageref"
	"github.com/ilkoid/vision-mcp/pkg/llm"
	"github.com/ilkoid/vision-mcp/pkg/tools"
	"github.com/ilkoid/vision-mcp/pkg/vision"
)

// echoProvider — тестовый двойник провайдера с фиксированным ответом.
type echoProvider struct {
	text  string
	model string
	err   error
	calls int
}

func (e *echoProvider) Chat(_ context.Context, _ []llm.Message) (llm.Completion, error) {
	e.calls++
	if e.err != nil {
		return llm.Completion{}, e.err
	}
	return llm.Completion{Text: e.text, Model: e.model}, nil
}

// panicProvider имитирует баг в нижнем слое.
type panicProvider struct{}

func (p *panicProvider) Chat(_ context.Context, _ []llm.Message) (llm.Completion, error) {
	panic("integration bug")
}

func newAnalyzer(p llm.Provider) *vision.Analyzer {
	return vision.NewAnalyzer(imageref.NewResolver(nil), p, config.VisionConfig{})
}

// decodeEnvelope разбирает JSON ответа инструмента.
func decodeEnvelope(t *testing.T, raw string) vision.Envelope {
	t.Helper()
	var env vision.Envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	return env
}

func writeImage(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{7}, size), 0644))
	return path
}

func TestAnalyzeImageTool(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		provider := &echoProvider{text: "two dogs", model: "qwen-vl-plus"}
		tool := NewAnalyzeImageTool(newAnalyzer(provider))
		path := writeImage(t, "dogs.jpg", 32)

		raw, err := tool.Execute(ctx, fmt.Sprintf(`{"image_path": %q, "query": "who?"}`, path))
		require.NoError(t, err)

		env := decodeEnvelope(t, raw)
		require.True(t, env.Success)
		assert.Equal(t, "two dogs", env.Result)
		assert.Equal(t, "qwen-vl-plus", env.Model)
		assert.Equal(t, path, env.ImagePath)
		assert.Empty(t, env.Error)
	})

	t.Run("missing image_path", func(t *testing.T) {
		tool := NewAnalyzeImageTool(newAnalyzer(&echoProvider{}))

		raw, err := tool.Execute(ctx, `{}`)
		require.NoError(t, err)

		env := decodeEnvelope(t, raw)
		require.False(t, env.Success)
		assert.Contains(t, env.Error, "image_path is required")
	})

	t.Run("unknown argument rejected", func(t *testing.T) {
		tool := NewAnalyzeImageTool(newAnalyzer(&echoProvider{}))

		raw, err := tool.Execute(ctx, `{"image_path": "a.jpg", "detail": "high"}`)
		require.NoError(t, err)

		env := decodeEnvelope(t, raw)
		require.False(t, env.Success)
		assert.Contains(t, env.Error, "invalid arguments")
	})

	t.Run("nonexistent file fails without remote call", func(t *testing.T) {
		provider := &echoProvider{text: "x"}
		tool := NewAnalyzeImageTool(newAnalyzer(provider))

		raw, err := tool.Execute(ctx, fmt.Sprintf(`{"image_path": %q}`, filepath.Join(t.TempDir(), "no.png")))
		require.NoError(t, err)

		env := decodeEnvelope(t, raw)
		require.False(t, env.Success)
		assert.NotEmpty(t, env.Error)
		assert.Zero(t, provider.calls)
	})

	t.Run("transport failure becomes envelope error", func(t *testing.T) {
		provider := &echoProvider{err: fmt.Errorf("%w: dial timeout", llm.ErrTransport)}
		tool := NewAnalyzeImageTool(newAnalyzer(provider))
		path := writeImage(t, "a.jpg", 8)

		raw, err := tool.Execute(ctx, fmt.Sprintf(`{"image_path": %q}`, path))
		require.NoError(t, err)

		env := decodeEnvelope(t, raw)
		require.False(t, env.Success)
		assert.NotEmpty(t, env.Error)
	})

	t.Run("panic is contained", func(t *testing.T) {
		tool := NewAnalyzeImageTool(newAnalyzer(&panicProvider{}))
		path := writeImage(t, "a.jpg", 8)

		raw, err := tool.Execute(ctx, fmt.Sprintf(`{"image_path": %q}`, path))
		require.NoError(t, err)

		env := decodeEnvelope(t, raw)
		require.False(t, env.Success)
		assert.Contains(t, env.Error, "internal error")
	})
}

func TestAnalyzeImageFromContextTool(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		provider := &echoProvider{text: "the window is on the left", model: "qwen-vl-plus"}
		tool := NewAnalyzeImageFromContextTool(newAnalyzer(provider))
		path := writeImage(t, "room.png", 16)

		args := fmt.Sprintf(`{
			"context": [
				{"role": "user", "content": "flat layout"},
				{"role": "assistant", "content": "noted"}
			],
			"image_path": %q,
			"query": "where is the window?"
		}`, path)

		raw, err := tool.Execute(ctx, args)
		require.NoError(t, err)

		env := decodeEnvelope(t, raw)
		require.True(t, env.Success)
		assert.Equal(t, "the window is on the left", env.Result)
	})

	t.Run("missing required arguments", func(t *testing.T) {
		tests := []struct {
			name string
			args string
			want string
		}{
			{"no context", `{"image_path": "a.jpg", "query": "q"}`, "context is required"},
			{"no query", `{"context": [{"role":"user","content":"hi"}], "image_path": "a.jpg"}`, "query is required"},
			{"no image_path", `{"context": [{"role":"user","content":"hi"}], "query": "q"}`, "image_path is required"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				provider := &echoProvider{}
				tool := NewAnalyzeImageFromContextTool(newAnalyzer(provider))

				raw, err := tool.Execute(ctx, tt.args)
				require.NoError(t, err)

				env := decodeEnvelope(t, raw)
				require.False(t, env.Success)
				assert.Contains(t, env.Error, tt.want)
				assert.Zero(t, provider.calls)
			})
		}
	})

	t.Run("malformed context shape", func(t *testing.T) {
		tool := NewAnalyzeImageFromContextTool(newAnalyzer(&echoProvider{}))

		raw, err := tool.Execute(ctx, `{"context": "not an array", "image_path": "a.jpg", "query": "q"}`)
		require.NoError(t, err)

		env := decodeEnvelope(t, raw)
		require.False(t, env.Success)
		assert.Contains(t, env.Error, "invalid arguments")
	})
}

func TestListFormatsTool(t *testing.T) {
	tool := NewListFormatsTool(newAnalyzer(&echoProvider{}))

	// Политика не зависит от входа, включая мусорные аргументы
	for _, args := range []string{``, `{}`, `{"whatever": 1}`} {
		raw, err := tool.Execute(context.Background(), args)
		require.NoError(t, err)

		env := decodeEnvelope(t, raw)
		require.True(t, env.Success, "args=%q", args)
		assert.Equal(t, []string{"jpeg", "jpg", "png", "webp", "gif"}, env.Formats)
		assert.Equal(t, 20, env.MaxSizeMB)
	}
}

func TestCheckImageFileTool(t *testing.T) {
	ctx := context.Background()
	provider := &echoProvider{}
	tool := NewCheckImageFileTool(newAnalyzer(provider))

	t.Run("valid file metadata", func(t *testing.T) {
		path := writeImage(t, "pic.webp", 256)

		raw, err := tool.Execute(ctx, fmt.Sprintf(`{"image_path": %q}`, path))
		require.NoError(t, err)

		env := decodeEnvelope(t, raw)
		require.True(t, env.Success)
		assert.Equal(t, int64(256), env.Size)
		assert.Equal(t, ".webp", env.Format)
	})

	t.Run("missing file", func(t *testing.T) {
		raw, err := tool.Execute(ctx, fmt.Sprintf(`{"image_path": %q}`, filepath.Join(t.TempDir(), "no.jpg")))
		require.NoError(t, err)

		env := decodeEnvelope(t, raw)
		require.False(t, env.Success)
		assert.NotEmpty(t, env.Error)
	})

	t.Run("never calls the provider", func(t *testing.T) {
		path := writeImage(t, "pic.jpg", 8)
		_, err := tool.Execute(ctx, fmt.Sprintf(`{"image_path": %q}`, path))
		require.NoError(t, err)
		assert.Zero(t, provider.calls)
	})
}

func TestRegisterAll(t *testing.T) {
	registry := tools.NewRegistry()
	require.NoError(t, RegisterAll(registry, newAnalyzer(&echoProvider{})))

	defs := registry.GetDefinitions()
	require.Len(t, defs, 4)

	// GetDefinitions сортирует по имени
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	assert.Equal(t, []string{
		"analyze_image",
		"analyze_image_from_context",
		"check_image_file",
		"list_supported_image_formats",
	}, names)
}
