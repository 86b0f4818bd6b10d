package llm

import (
	"context"

	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.InDelta(t, DefaultTemperature, cfg.Temperature, 0.001)
}

func TestWithModel(t *testing.T) {
	cfg := DefaultConfig()

	override := cfg.WithModel("gemini-2.5-pro")
	assert.Equal(t, "gemini-2.5-pro", override.Model)
	assert.Equal(t, DefaultModel, cfg.Model, "original config should be unchanged")

	same := cfg.WithModel("")
	assert.Equal(t, DefaultModel, same.Model, "empty model keeps the default")
}

func TestExtractTextFromResponse(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr string
	}{
		{
			name:    "no candidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: "no candidates",
		},
		{
			name: "nil content",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{}},
			},
			wantErr: "no content",
		},
		{
			name: "single text part",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []genai.Part{genai.Text("hello")}},
				}},
			},
			want: "hello",
		},
		{
			name: "multiple text parts joined",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []genai.Part{genai.Text("a"), genai.Text("b")}},
				}},
			},
			want: "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractTextFromResponse(tt.resp)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewClientRejectsUnsupportedProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenAI

	_, err := NewClient(context.Background(), cfg, "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported provider "openai"`)
}

func TestNewGeminiClientRequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), DefaultConfig(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}
