package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jobsift/jdextract/config"
)

// maxSnippetChars caps the candidate text sent to the classifier.
const maxSnippetChars = 3000

// Classifier asks an OpenAI-compatible chat endpoint whether candidate
// text is a real job posting. Classification is conservative by contract:
// a missing credential, an API failure, or any answer not starting with
// "yes" all count as rejection, never as a pipeline error.
type Classifier struct {
	httpClient *http.Client
	cfg        config.ValidateConfig
}

// NewClassifier creates a Classifier. Pass nil to use a default client;
// the call timeout comes from cfg.
func NewClassifier(httpClient *http.Client, cfg config.ValidateConfig) *Classifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Classifier{httpClient: httpClient, cfg: cfg}
}

// Available reports whether a credential is configured. Without one,
// Validate always rejects.
func (c *Classifier) Available() bool {
	return c.cfg.APIKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Validate classifies the candidate text. True means the model confirmed a
// job posting; every failure mode is false.
func (c *Classifier) Validate(ctx context.Context, text string) bool {
	if !c.Available() {
		slog.Warn("no LLM credential configured, rejecting candidate text")
		return false
	}

	snippet := text
	if len(snippet) > maxSnippetChars {
		snippet = snippet[:maxSnippetChars] + "..."
	}

	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "user", Content: buildPrompt(snippet)},
		},
		Temperature: 0.1,
		MaxTokens:   150,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		slog.Error("classifier request marshal failed", "error", err)
		return false
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("classifier call failed, rejecting", "error", err)
		return false
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		slog.Warn("classifier returned error, rejecting", "status", resp.StatusCode)
		return false
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil || len(chatResp.Choices) == 0 {
		slog.Warn("classifier response unparseable, rejecting")
		return false
	}

	answer := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	slog.Debug("classifier verdict", "answer", answer)
	return strings.HasPrefix(strings.ToLower(answer), "yes")
}

// buildPrompt instructs the model to ignore login banners when the body
// carries concrete job details, and to reject only pure login, error, or
// navigation pages.
func buildPrompt(snippet string) string {
	return fmt.Sprintf(`You are a job posting validator. Analyze this text and determine if it's a REAL job description/job posting.

RESPOND WITH ONLY "YES" OR "NO" FOLLOWED BY A SHORT REASON.

CRITICAL INSTRUCTION:
Many public job pages have login banners, "Sign in", or "Join now" overlays.
IGNORE these login prompts IF the text also contains specific job details.

A valid job posting MUST have:
- Job title (e.g., "Game Developer", "Sales Manager")
- Specific responsibilities or requirements
- Company name or details

Return "NO" ONLY if:
- It is PURELY a login page / error page / short snippet
- It contains NO specific job duties
- It is just a list of links or navigation

Text to analyze:
%s

Answer (YES/NO + reason):`, snippet)
}
