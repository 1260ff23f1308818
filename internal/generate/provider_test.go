package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"springnorm/internal/config"
)

func togetherTestConfig(baseURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.LLM.APIKey = "tk-test"
	cfg.LLM.BaseURL = baseURL
	cfg.Generation.MaxRetries = 0
	return cfg
}

func TestTogetherComplete(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "  hello  "}},
			},
		})
	}))
	defer srv.Close()

	c := NewTogetherClient(togetherTestConfig(srv.URL))
	out, err := c.Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, "Bearer tk-test", gotAuth)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Content)
}

func TestTogetherCompleteErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewTogetherClient(togetherTestConfig(srv.URL))
	_, err := c.Complete(context.Background(), "sys", "user")
	assert.ErrorContains(t, err, "503")

	c = NewTogetherClient(togetherTestConfig(srv.URL))
	c.apiKey = ""
	_, err = c.Complete(context.Background(), "sys", "user")
	assert.ErrorContains(t, err, "API key")
}

func TestOllamaComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": map[string]string{"role": "assistant", "content": "pong"},
		})
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.LLM.Provider = "ollama"
	cfg.LLM.BaseURL = srv.URL
	c := NewOllamaClient(cfg)

	out, err := c.Complete(context.Background(), "sys", "ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", out)
}

func TestNewProvider(t *testing.T) {
	cfg := config.DefaultConfig()

	p, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &TogetherClient{}, p)

	cfg.LLM.Provider = "ollama"
	p, err = NewProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &OllamaClient{}, p)

	cfg.LLM.Provider = "watson"
	_, err = NewProvider(cfg)
	assert.Error(t, err)
}
