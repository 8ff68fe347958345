package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DeepLClient calls the DeepL translation API. The free-tier endpoint is the
// default; paid accounts override the URL. It implements Translator only.
type DeepLClient struct {
	apiURL     string
	authKey    string
	targetLang string
	httpClient *http.Client
	stats      *LLMStats
}

func NewDeepLClient(apiURL, authKey, targetLang string, stats *LLMStats) *DeepLClient {
	if apiURL == "" {
		apiURL = "https://api-free.deepl.com/v2/translate"
	}
	return &DeepLClient{
		apiURL:     apiURL,
		authKey:    authKey,
		targetLang: targetLang,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		stats: stats,
	}
}

type deeplResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
	Message string `json:"message"`
}

// Translate translates one chunk of text via the DeepL API.
func (c *DeepLClient) Translate(ctx context.Context, text string) (string, error) {
	form := url.Values{}
	form.Set("auth_key", c.authKey)
	form.Set("text", text)
	form.Set("target_lang", c.targetLang)
	form.Set("source_lang", "EN")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("deepl api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return "", &AuthError{Message: "deepl rejected auth key"}
	case resp.StatusCode == 456:
		return "", &QuotaError{Message: "deepl character quota exhausted"}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("deepl api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp deeplResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Translations) == 0 {
		return "", fmt.Errorf("empty response from deepl")
	}

	if c.stats != nil {
		c.stats.Record(time.Since(start).Milliseconds(), len(text))
	}
	return apiResp.Translations[0].Text, nil
}

// Close releases resources.
func (c *DeepLClient) Close() {
	c.httpClient.CloseIdleConnections()
}
