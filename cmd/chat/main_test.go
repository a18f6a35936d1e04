package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/golang/mock/gomock"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/demo/config"
	"github.com/w-h-a/demo/generator"
	"github.com/w-h-a/demo/generator/mocks"
)

func TestMissingCredential(t *testing.T) {
	var built int
	build := func(opts ...generator.Option) generator.Generator {
		built++
		return nil
	}

	var out bytes.Buffer
	code := run(context.Background(), config.Chat{Provider: "openai"}, strings.NewReader("hello\n"), &out, build)

	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: OPENAI_API_KEY environment variable not set.\n", out.String())
	assert.Zero(t, built)
}

func TestSessionWithMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockGenerator(ctrl)
	mock.EXPECT().Generate(gomock.Any(), "hello").Return("hi there", nil)

	var got generator.Options
	build := func(opts ...generator.Option) generator.Generator {
		got = generator.NewOptions(opts...)
		return mock
	}

	var out bytes.Buffer
	code := run(context.Background(), config.Chat{ApiKey: "sk-test", Model: "gpt-3.5-turbo"}, strings.NewReader("hello\nEXIT\n"), &out, build)

	assert.Equal(t, 0, code)
	assert.Equal(t, "sk-test", got.ApiKey)
	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.Equal(t, banner+"\nYou: Assistant: hi there\nYou: Goodbye!\n", out.String())
}

func TestSessionAgainstServer(t *testing.T) {
	var requests atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Recovered."}},
			},
		})
	}))
	defer ts.Close()

	cfg := config.Chat{
		Provider: "openai",
		ApiKey:   "sk-test",
		Model:    "gpt-3.5-turbo",
		BaseURL:  ts.URL + "/v1",
	}

	var out bytes.Buffer
	code := run(context.Background(), cfg, strings.NewReader("first\nsecond\nexit\n"), &out, providers["openai"])

	assert.Equal(t, 0, code)
	assert.Equal(t, int32(2), requests.Load())
	assert.Contains(t, out.String(), "You: An API error occurred: openai: status 429")
	assert.Contains(t, out.String(), "You: Assistant: Recovered.\n")
	assert.True(t, strings.HasSuffix(out.String(), "You: Goodbye!\n"))
}

func TestExitIssuesNoRequest(t *testing.T) {
	var requests atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer ts.Close()

	cfg := config.Chat{Provider: "openai", ApiKey: "sk-test", Model: "gpt-3.5-turbo", BaseURL: ts.URL + "/v1"}

	var out bytes.Buffer
	code := run(context.Background(), cfg, strings.NewReader("  ExIt \n"), &out, providers["openai"])

	assert.Equal(t, 0, code)
	assert.Zero(t, requests.Load())
	assert.Equal(t, banner+"\nYou: Goodbye!\n", out.String())
}

func TestParsedWithoutCredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	var parsed config.Chat
	parser, err := newParser(&parsed)
	require.NoError(t, err)

	_, err = parser.Parse(nil)
	require.NoError(t, err)

	var built int
	build := func(opts ...generator.Option) generator.Generator {
		built++
		return nil
	}

	var out bytes.Buffer
	code := run(context.Background(), parsed, strings.NewReader("hello\n"), &out, build)

	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: OPENAI_API_KEY environment variable not set.\n", out.String())
	assert.Zero(t, built)
}

func TestParsedWithCredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	var parsed config.Chat
	parser, err := newParser(&parsed)
	require.NoError(t, err)

	_, err = parser.Parse([]string{"--provider=anthropic"})
	require.NoError(t, err)

	assert.Equal(t, "sk-env", parsed.ApiKey)
	assert.Equal(t, "anthropic", parsed.Provider)
	assert.Empty(t, parsed.Model)
}

func TestProviderDefaultModels(t *testing.T) {
	testCases := []struct {
		provider string
		baseURL  func(string) string
		respond  func(w http.ResponseWriter)
		model    func(body []byte) string
		expected string
	}{
		{
			provider: "openai",
			baseURL:  func(u string) string { return u + "/v1" },
			respond: func(w http.ResponseWriter) {
				json.NewEncoder(w).Encode(map[string]any{
					"choices": []map[string]any{
						{"message": map[string]any{"role": "assistant", "content": "Sunny."}},
					},
				})
			},
			model: func(body []byte) string {
				var req openai.ChatCompletionRequest
				json.Unmarshal(body, &req)
				return req.Model
			},
			expected: openai.GPT3Dot5Turbo,
		},
		{
			provider: "anthropic",
			baseURL:  func(u string) string { return u + "/" },
			respond: func(w http.ResponseWriter) {
				w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"m","content":[{"type":"text","text":"Sunny."}],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`))
			},
			model: func(body []byte) string {
				var req struct {
					Model string `json:"model"`
				}
				json.Unmarshal(body, &req)
				return req.Model
			},
			expected: string(anthropic.ModelClaude3_5HaikuLatest),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.provider, func(t *testing.T) {
			var body []byte

			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ = io.ReadAll(r.Body)
				w.Header().Set("Content-Type", "application/json")
				tc.respond(w)
			}))
			defer ts.Close()

			cfg := config.Chat{Provider: tc.provider, ApiKey: "sk-test", BaseURL: tc.baseURL(ts.URL)}

			var out bytes.Buffer
			code := run(context.Background(), cfg, strings.NewReader("weather?\nexit\n"), &out, providers[tc.provider])

			assert.Equal(t, 0, code)
			assert.Contains(t, out.String(), "You: Assistant: Sunny.\n")
			assert.Equal(t, tc.expected, tc.model(body))
		})
	}
}

func TestGoogleGetsNoModelOverride(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockGenerator(ctrl)

	var got generator.Options
	build := func(opts ...generator.Option) generator.Generator {
		got = generator.NewOptions(opts...)
		return mock
	}

	code := run(context.Background(), config.Chat{Provider: "google", ApiKey: "key"}, strings.NewReader("exit\n"), &bytes.Buffer{}, build)

	assert.Equal(t, 0, code)
	assert.Empty(t, got.Model)
}
