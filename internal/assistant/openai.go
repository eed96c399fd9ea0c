package assistant

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1"

type OpenAIClient struct {
	apiKey       string
	assistantID  string
	baseURL      string
	pollInterval time.Duration
	client       *http.Client
}

type createThreadRequest struct {
	Messages []MessageInput `json:"messages,omitempty"`
}

type createMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type createRunRequest struct {
	AssistantID string `json:"assistant_id"`
	Stream      bool   `json:"stream,omitempty"`
}

type listMessagesResponse struct {
	Data []Message `json:"data"`
}

type messageDeltaEvent struct {
	Delta struct {
		Content []ContentPart `json:"content"`
	} `json:"delta"`
}

func NewOpenAIClient(assistantID string, apiKeyEnv string, directAPIKey string) (*OpenAIClient, error) {
	var apiKey string

	// First try direct API key from config
	if directAPIKey != "" {
		apiKey = directAPIKey
	} else if apiKeyEnv != "" {
		// Fallback to environment variable
		apiKey = os.Getenv(apiKeyEnv)
	}

	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in config or environment variable %s", apiKeyEnv)
	}

	if assistantID == "" {
		return nil, fmt.Errorf("assistant ID is required")
	}

	return &OpenAIClient{
		apiKey:       apiKey,
		assistantID:  assistantID,
		baseURL:      defaultBaseURL,
		pollInterval: time.Second,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *OpenAIClient) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

func (c *OpenAIClient) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("OpenAI-Beta", "assistants=v2")
	return req, nil
}

func (c *OpenAIClient) do(ctx context.Context, method, path string, body any, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("OpenAI API error %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *OpenAIClient) CreateThread(ctx context.Context, messages []MessageInput) (*Thread, error) {
	var thread Thread
	if err := c.do(ctx, "POST", "/threads", createThreadRequest{Messages: messages}, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

func (c *OpenAIClient) AddMessage(ctx context.Context, threadID, content string) (*Message, error) {
	var msg Message
	req := createMessageRequest{Role: RoleUser, Content: content}
	if err := c.do(ctx, "POST", fmt.Sprintf("/threads/%s/messages", threadID), req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// RunAndPoll starts a run on the thread and polls until it reaches a
// terminal status or the context is cancelled.
func (c *OpenAIClient) RunAndPoll(ctx context.Context, threadID string) (*Run, error) {
	var run Run
	req := createRunRequest{AssistantID: c.assistantID}
	if err := c.do(ctx, "POST", fmt.Sprintf("/threads/%s/runs", threadID), req, &run); err != nil {
		return nil, err
	}

	for !run.Terminal() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
		path := fmt.Sprintf("/threads/%s/runs/%s", threadID, run.ID)
		if err := c.do(ctx, "GET", path, nil, &run); err != nil {
			return nil, err
		}
	}
	return &run, nil
}

// StreamRun starts a streaming run and invokes onDelta for every text
// fragment the assistant emits. It returns the final run state.
func (c *OpenAIClient) StreamRun(ctx context.Context, threadID string, onDelta func(text string)) (*Run, error) {
	req, err := c.newRequest(ctx, "POST", fmt.Sprintf("/threads/%s/runs", threadID), createRunRequest{
		AssistantID: c.assistantID,
		Stream:      true,
	})
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("OpenAI API error %d: %s", resp.StatusCode, string(respBody))
	}

	var run Run
	var event string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				return &run, nil
			}
			switch event {
			case "thread.message.delta":
				var delta messageDeltaEvent
				if err := json.Unmarshal([]byte(data), &delta); err != nil {
					return nil, fmt.Errorf("failed to decode stream event: %w", err)
				}
				for _, part := range delta.Delta.Content {
					if part.Type == "text" && part.Text != nil {
						onDelta(part.Text.Value)
					}
				}
			case "thread.run.completed", "thread.run.failed", "thread.run.cancelled", "thread.run.expired":
				if err := json.Unmarshal([]byte(data), &run); err != nil {
					return nil, fmt.Errorf("failed to decode stream event: %w", err)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("stream read error: %w", err)
	}
	return &run, nil
}

// ListMessages returns the newest messages on a thread, newest first.
func (c *OpenAIClient) ListMessages(ctx context.Context, threadID string, limit int) ([]Message, error) {
	path := fmt.Sprintf("/threads/%s/messages", threadID)
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var out listMessagesResponse
	if err := c.do(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// FileContent downloads a file the assistant produced, typically a chart.
func (c *OpenAIClient) FileContent(ctx context.Context, fileID string) ([]byte, error) {
	req, err := c.newRequest(ctx, "GET", fmt.Sprintf("/files/%s/content", fileID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("OpenAI API error %d: %s", resp.StatusCode, string(respBody))
	}

	return io.ReadAll(resp.Body)
}

// Compile-time interface check
var _ Client = (*OpenAIClient)(nil)
