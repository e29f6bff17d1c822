// Command jdextract-mcp exposes the extraction API as an MCP stdio server,
// so agent frameworks can pull job descriptions with a single tool call.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// extractRequest mirrors the jdextract API request model.
type extractRequest struct {
	URL    string `json:"url"`
	Format string `json:"format,omitempty"`
}

// extractResponse mirrors the jdextract API response model.
type extractResponse struct {
	Success    bool   `json:"success"`
	Status     string `json:"status"`
	JDText     string `json:"jd_text"`
	JDMarkdown string `json:"jd_markdown"`
	Reason     string `json:"reason"`
	FinalURL   string `json:"final_url"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("JDX_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("JDX_API_KEY")

	s := server.NewMCPServer(
		"jdextract",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	extractTool := mcp.NewTool("extract_job_description",
		mcp.WithDescription("Extract the job description from a job posting URL. Handles redirects, JavaScript-rendered pages, and login-wall detection; validates that the page is actually a job posting."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the job posting"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'text' (default) or 'markdown'"),
			mcp.Enum("text", "markdown"),
		),
	)

	s.AddTool(extractTool, handleExtract(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleExtract(apiURL, apiKey string) server.ToolHandlerFunc {
	// Generous client timeout: a single extraction may spend well over a
	// minute on redirects plus headless rendering.
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		format := request.GetString("format", "")

		body, err := json.Marshal(extractRequest{URL: url, Format: format})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal request: %v", err)), nil
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/api/v1/extract", bytes.NewReader(body))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if apiKey != "" {
			httpReq.Header.Set("X-API-Key", apiKey)
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		var extractResp extractResponse
		if err := json.Unmarshal(respBody, &extractResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if extractResp.Error != nil {
			return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", extractResp.Error.Code, extractResp.Error.Message)), nil
		}
		if !extractResp.Success {
			return mcp.NewToolResultError(fmt.Sprintf("[%s] %s (url: %s)",
				extractResp.Status, extractResp.Reason, extractResp.FinalURL)), nil
		}

		result := fmt.Sprintf("Source: %s\n\n", extractResp.FinalURL)
		if format == "markdown" && extractResp.JDMarkdown != "" {
			result += extractResp.JDMarkdown
		} else {
			result += extractResp.JDText
		}
		return mcp.NewToolResultText(result), nil
	}
}
