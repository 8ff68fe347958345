package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OllamaClient talks to a local Ollama instance via its generate API. It
// implements both Translator and Summarizer.
type OllamaClient struct {
	baseURL    string
	model      string
	targetLang string
	httpClient *http.Client
	stats      *LLMStats
}

func NewOllamaClient(baseURL, model, targetLang string, stats *LLMStats) *OllamaClient {
	return &OllamaClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		targetLang: targetLang,
		httpClient: &http.Client{
			Timeout: 300 * time.Second,
		},
		stats: stats,
	}
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Translate translates one chunk of paper text into the target language.
func (c *OllamaClient) Translate(ctx context.Context, text string) (string, error) {
	prompt := BuildTranslationPrompt(c.targetLang, text)
	return c.generate(ctx, prompt, 0.1, 4096, len(text))
}

// Summarize produces a structured summary of the full paper text.
func (c *OllamaClient) Summarize(ctx context.Context, text string) (string, error) {
	prompt := BuildSummaryPrompt(c.targetLang, text)
	return c.generate(ctx, prompt, 0.3, 4096, len(text))
}

func (c *OllamaClient) generate(ctx context.Context, prompt string, temperature float64, numPredict, textChars int) (string, error) {
	reqBody := ollamaRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: temperature,
			NumPredict:  numPredict,
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ollama api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp ollamaResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != "" {
		return "", fmt.Errorf("ollama error: %s", apiResp.Error)
	}
	if strings.TrimSpace(apiResp.Response) == "" {
		return "", fmt.Errorf("empty response from ollama")
	}

	if c.stats != nil {
		c.stats.Record(time.Since(start).Milliseconds(), textChars)
	}
	return apiResp.Response, nil
}

// CheckHealth verifies the Ollama instance is reachable.
func (c *OllamaClient) CheckHealth(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("ollama unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama health status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources.
func (c *OllamaClient) Close() {
	c.httpClient.CloseIdleConnections()
}
