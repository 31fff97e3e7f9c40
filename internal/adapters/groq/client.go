// Package groq provides an adapter for the Groq chat-completions API.
// It implements emotion analysis by sending normalized lyrics with a
// fixed scoring prompt and parsing the structured JSON reply into a
// validated domain.EmotionReport.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ewilliams-labs/lyricmood/internal/core/domain"
	"github.com/ewilliams-labs/lyricmood/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "meta-llama/llama-4-scout-17b-16e-instruct"

	requestTimeout = 30 * time.Second
	maxTokens      = 1000
	temperature    = 0.3

	// Lyrics are cut to the first maxLyricsRunes runes before sending, so
	// repeated runs on the same input always see the same payload.
	maxLyricsRunes = 10000
)

const systemPrompt = `You are an emotion analyst for song lyrics. Score the emotional content of the lyrics you receive across exactly these five categories:
- happiness: joy, contentment, positive emotions
- sadness: melancholy, grief, sorrow
- anger: rage, frustration, hostility
- fear: anxiety, worry, dread
- love: affection, romance, caring

Each score is a number between 0.0 and 1.0 and the five scores must sum to 1.0.
Return ONLY a JSON object in this exact shape, no conversational text:
{"happiness": <score>, "sadness": <score>, "anger": <score>, "fear": <score>, "love": <score>, "confidence": <0.0-1.0>, "summary": "<one sentence>"}`

// Client is an HTTP client for the Groq adapter.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// compile-time interface assertion
var _ ports.EmotionAnalyzer = (*Client)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens"`
	Temperature    float64         `json:"temperature"`
	Stream         bool            `json:"stream"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClient constructs a Groq client. Empty model or baseURL fall back to
// the defaults.
func NewClient(apiKey string, model string, baseURL string) *Client {
	if model == "" {
		model = defaultModel
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// AnalyzeEmotions implements ports.EmotionAnalyzer.
func (c *Client) AnalyzeEmotions(ctx context.Context, lyrics string) (domain.EmotionReport, error) {
	lyrics = strings.TrimSpace(lyrics)
	if lyrics == "" {
		return domain.EmotionReport{}, fmt.Errorf("groq adapter: lyrics must not be empty")
	}

	payload := chatRequest{
		Model:          c.model,
		Stream:         false,
		MaxTokens:      maxTokens,
		Temperature:    temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: truncateLyrics(lyrics)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.EmotionReport{}, fmt.Errorf("groq adapter: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return domain.EmotionReport{}, fmt.Errorf("groq adapter: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.EmotionReport{}, fmt.Errorf("groq adapter: %w", ctx.Err())
		}
		return domain.EmotionReport{}, &ports.TransientError{Err: fmt.Errorf("groq adapter: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.EmotionReport{}, classifyStatus(resp)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.EmotionReport{}, fmt.Errorf("groq adapter: decode response: %w", ports.ErrMalformedResponse)
	}
	if parsed.Error != nil {
		return domain.EmotionReport{}, fmt.Errorf("groq adapter: %s: %w", parsed.Error.Message, ports.ErrMalformedResponse)
	}
	if len(parsed.Choices) == 0 {
		return domain.EmotionReport{}, fmt.Errorf("groq adapter: no choices in response: %w", ports.ErrMalformedResponse)
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return domain.EmotionReport{}, fmt.Errorf("groq adapter: empty response content: %w", ports.ErrMalformedResponse)
	}

	return parseEmotionContent(content)
}

func truncateLyrics(lyrics string) string {
	runes := []rune(lyrics)
	if len(runes) <= maxLyricsRunes {
		return lyrics
	}
	return string(runes[:maxLyricsRunes])
}

func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("groq adapter: status %d: %w", resp.StatusCode, ports.ErrAuthFailed)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &ports.RateLimitError{Provider: "groq", RetryAfter: parseRetryAfter(resp)}
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		return fmt.Errorf("groq adapter: status %d: %w", resp.StatusCode, ports.ErrInputTooLarge)
	case resp.StatusCode >= http.StatusInternalServerError:
		return &ports.TransientError{Err: fmt.Errorf("groq adapter: status %d", resp.StatusCode)}
	default:
		return fmt.Errorf("groq adapter: unexpected status %d: %w", resp.StatusCode, ports.ErrMalformedResponse)
	}
}

func parseRetryAfter(resp *http.Response) time.Duration {
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(retryAfter); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}
	return 0
}
