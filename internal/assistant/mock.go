package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MockClient keeps threads in memory and answers every run with a canned
// analysis, so the chat surface works without an API key.
type MockClient struct {
	mu      sync.Mutex
	seq     int
	threads map[string][]Message
}

func NewMockClient() *MockClient {
	return &MockClient{threads: make(map[string][]Message)}
}

func (m *MockClient) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s_mock_%d", prefix, m.seq)
}

func (m *MockClient) CreateThread(ctx context.Context, messages []MessageInput) (*Thread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID("thread")
	for _, in := range messages {
		m.threads[id] = append(m.threads[id], Message{
			ID:        m.nextID("msg"),
			Role:      in.Role,
			Content:   []ContentPart{{Type: "text", Text: &TextContent{Value: in.Content}}},
			CreatedAt: time.Now().Unix(),
		})
	}
	return &Thread{ID: id, CreatedAt: time.Now().Unix()}, nil
}

func (m *MockClient) AddMessage(ctx context.Context, threadID, content string) (*Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.threads[threadID]; !ok {
		return nil, fmt.Errorf("unknown thread %s", threadID)
	}
	msg := Message{
		ID:        m.nextID("msg"),
		Role:      RoleUser,
		Content:   []ContentPart{{Type: "text", Text: &TextContent{Value: content}}},
		CreatedAt: time.Now().Unix(),
	}
	m.threads[threadID] = append(m.threads[threadID], msg)
	return &msg, nil
}

func (m *MockClient) reply(threadID string) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs, ok := m.threads[threadID]
	if !ok {
		return nil, fmt.Errorf("unknown thread %s", threadID)
	}

	var lastUser string
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			lastUser = msgs[i].PlainText()
			break
		}
	}

	m.threads[threadID] = append(m.threads[threadID], Message{
		ID:        m.nextID("msg"),
		Role:      RoleAssistant,
		Content:   []ContentPart{{Type: "text", Text: &TextContent{Value: mockAnswer(lastUser)}}},
		CreatedAt: time.Now().Unix(),
	})

	return &Run{ID: m.nextID("run"), ThreadID: threadID, Status: RunCompleted}, nil
}

func (m *MockClient) RunAndPoll(ctx context.Context, threadID string) (*Run, error) {
	// Simulate API delay
	time.Sleep(100 * time.Millisecond)
	return m.reply(threadID)
}

func (m *MockClient) StreamRun(ctx context.Context, threadID string, onDelta func(text string)) (*Run, error) {
	run, err := m.reply(threadID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	msgs := m.threads[threadID]
	answer := msgs[len(msgs)-1].PlainText()
	m.mu.Unlock()

	for _, word := range strings.SplitAfter(answer, " ") {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
		onDelta(word)
	}
	return run, nil
}

func (m *MockClient) ListMessages(ctx context.Context, threadID string, limit int) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs, ok := m.threads[threadID]
	if !ok {
		return nil, fmt.Errorf("unknown thread %s", threadID)
	}

	// Newest first, matching the hosted API default.
	out := make([]Message, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		out = append(out, msgs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockClient) FileContent(ctx context.Context, fileID string) ([]byte, error) {
	return []byte(fmt.Sprintf("mock file content for %s", fileID)), nil
}

func mockAnswer(question string) string {
	q := strings.ToLower(question)

	if strings.Contains(q, "revenue") || strings.Contains(q, "sales") {
		return "Based on the order data, revenue is concentrated in a small " +
			"set of top categories. Monthly totals trend upward across the " +
			"period, with the strongest months at the end of the range. " +
			"Consider the monthly_sales report for the exact series."
	}
	if strings.Contains(q, "customer") || strings.Contains(q, "segment") {
		return "Customer activity is heavily skewed: a minority of repeat " +
			"buyers account for most orders. The RFM segmentation splits the " +
			"base into Champions, Loyal Customers, Potential Loyalists, At " +
			"Risk and Need Attention tiers using recency, frequency and " +
			"monetary scores."
	}
	if strings.Contains(q, "campaign") || strings.Contains(q, "marketing") {
		return "Attributed revenue varies widely per campaign. ROI is " +
			"attributed revenue over budget, so low-budget campaigns with " +
			"even modest attribution dominate the ranking. See the " +
			"campaign_roi report for the full table."
	}

	return "I analyzed the available tables (orders, order lines, customers, " +
		"campaigns, digital events, inventory and fulfillment). Ask about " +
		"revenue trends, customer segments or campaign performance for a " +
		"more specific breakdown."
}

// Compile-time interface check
var _ Client = (*MockClient)(nil)
