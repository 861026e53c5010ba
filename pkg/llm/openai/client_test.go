package openai

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ilkoid/vision-mcp/pkg/config"
	"github.com/ilkoid/vision-mcp/pkg/llm"
)

// TestNewClient тестирует создание клиента.
func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		modelDef config.ModelDef
		limiter  bool
	}{
		{
			name: "minimal config",
			modelDef: config.ModelDef{
				APIKey:    "test-key",
				ModelName: "qwen-vl-plus",
			},
		},
		{
			name: "with custom base url and rate limit",
			modelDef: config.ModelDef{
				APIKey:    "test-key",
				ModelName: "glm-4v",
				BaseURL:   "https://api.z.ai/v4",
				RateLimit: 60,
				Burst:     2,
			},
			limiter: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.modelDef)
			if client == nil {
				t.Fatal("expected non-nil client")
			}
			if client.api == nil {
				t.Error("expected non-nil api client")
			}
			if (client.limiter != nil) != tt.limiter {
				t.Errorf("limiter presence: expected %v, got %v", tt.limiter, client.limiter != nil)
			}
		})
	}
}

// TestMapToOpenAI тестирует конвертацию сообщений.
func TestMapToOpenAI(t *testing.T) {
	t.Run("simple text message", func(t *testing.T) {
		result := mapToOpenAI(llm.Message{Role: llm.RoleUser, Content: "hello"})

		if result.Role != llm.RoleUser {
			t.Errorf("expected role user, got %s", result.Role)
		}
		if result.Content != "hello" {
			t.Errorf("expected plain content, got %q", result.Content)
		}
		if result.MultiContent != nil {
			t.Error("expected no multi content for text-only message")
		}
	})

	t.Run("vision message", func(t *testing.T) {
		result := mapToOpenAI(llm.Message{
			Role:    llm.RoleUser,
			Content: "What's in this image?",
			Images:  []string{"https://example.com/cat.jpg"},
		})

		if result.Content != "" {
			t.Error("vision message must use MultiContent, not Content")
		}
		if len(result.MultiContent) != 2 {
			t.Fatalf("expected text part + image part, got %d parts", len(result.MultiContent))
		}
		if result.MultiContent[0].Type != openai.ChatMessagePartTypeText {
			t.Errorf("first part must be text, got %s", result.MultiContent[0].Type)
		}
		if result.MultiContent[1].ImageURL.URL != "https://example.com/cat.jpg" {
			t.Errorf("image url passed through wrong: %s", result.MultiContent[1].ImageURL.URL)
		}
	})
}

// TestClassifyError тестирует маппинг ошибок SDK на нашу таксономию.
func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind error
		contains string
	}{
		{
			name:     "401 api error",
			err:      &openai.APIError{HTTPStatusCode: 401, Message: "invalid api key"},
			wantKind: llm.ErrAuth,
			contains: "invalid api key",
		},
		{
			name:     "403 request error",
			err:      &openai.RequestError{HTTPStatusCode: 403},
			wantKind: llm.ErrAuth,
		},
		{
			name:     "server error with message",
			err:      &openai.APIError{HTTPStatusCode: 500, Message: "model overloaded"},
			wantKind: llm.ErrRemote,
			contains: "model overloaded",
		},
		{
			name:     "server error without message falls back",
			err:      &openai.APIError{HTTPStatusCode: 502, Message: "   "},
			wantKind: llm.ErrRemote,
			contains: "unknown remote error",
		},
		{
			name:     "timeout",
			err:      context.DeadlineExceeded,
			wantKind: llm.ErrTransport,
		},
		{
			name:     "cancellation",
			err:      context.Canceled,
			wantKind: llm.ErrTransport,
		},
		{
			name:     "plain network failure",
			err:      errors.New("dial tcp: lookup dashscope: no such host"),
			wantKind: llm.ErrTransport,
			contains: "no such host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err)

			if !errors.Is(got, tt.wantKind) {
				t.Fatalf("expected error kind %v, got %v", tt.wantKind, got)
			}
			if tt.contains != "" && !strings.Contains(got.Error(), tt.contains) {
				t.Errorf("expected message to contain %q, got: %v", tt.contains, got)
			}
		})
	}
}

// TestChat_MissingAPIKey проверяет что пустой ключ даёт ErrAuth без похода в сеть.
func TestChat_MissingAPIKey(t *testing.T) {
	client := NewClient(config.ModelDef{
		ModelName: "qwen-vl-plus",
	}.GetDefaults())

	_, err := client.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleUser, Content: "test"},
	})

	if !errors.Is(err, llm.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

// TestNormalizeRemoteMessage тестирует fallback для пустых сообщений сервиса.
func TestNormalizeRemoteMessage(t *testing.T) {
	if got := normalizeRemoteMessage(""); got != "unknown remote error" {
		t.Errorf("expected fallback, got %q", got)
	}
	if got := normalizeRemoteMessage(" quota exceeded "); got != "quota exceeded" {
		t.Errorf("expected trimmed message, got %q", got)
	}
}
