package assistant

import "context"

// Run statuses reported by the assistants API. A run is terminal once it
// leaves queued/in_progress.
const (
	RunQueued         = "queued"
	RunInProgress     = "in_progress"
	RunCompleted      = "completed"
	RunFailed         = "failed"
	RunCancelled      = "cancelled"
	RunExpired        = "expired"
	RunRequiresAction = "requires_action"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Thread struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"created_at"`
}

type Tool struct {
	Type string `json:"type"`
}

// Attachment binds an uploaded file to a thread message so the
// code-interpreter tool can read it.
type Attachment struct {
	FileID string `json:"file_id"`
	Tools  []Tool `json:"tools"`
}

// MessageInput is an outgoing message, used when seeding a new thread.
type MessageInput struct {
	Role        string       `json:"role"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type TextContent struct {
	Value string `json:"value"`
}

type ImageFileContent struct {
	FileID string `json:"file_id"`
}

// ContentPart is one element of a message body. Type is "text" or
// "image_file"; only the matching field is set.
type ContentPart struct {
	Type      string            `json:"type"`
	Text      *TextContent      `json:"text,omitempty"`
	ImageFile *ImageFileContent `json:"image_file,omitempty"`
}

type Message struct {
	ID        string        `json:"id"`
	Role      string        `json:"role"`
	Content   []ContentPart `json:"content"`
	CreatedAt int64         `json:"created_at"`
}

// PlainText concatenates the text parts of a message body.
func (m Message) PlainText() string {
	var out string
	for _, part := range m.Content {
		if part.Type == "text" && part.Text != nil {
			out += part.Text.Value
		}
	}
	return out
}

type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Run struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	Status    string    `json:"status"`
	LastError *RunError `json:"last_error,omitempty"`
}

// Terminal reports whether the run has stopped making progress. A run that
// requires action is waiting for tool output no client here can submit, so
// it counts as terminal and callers surface its status as a failure.
func (r *Run) Terminal() bool {
	switch r.Status {
	case RunCompleted, RunFailed, RunCancelled, RunExpired, RunRequiresAction:
		return true
	}
	return false
}

// Client is a conversation backend with a code-execution tool. The hosted
// implementation talks to the OpenAI assistants API; the mock answers from
// canned responses.
type Client interface {
	CreateThread(ctx context.Context, messages []MessageInput) (*Thread, error)
	AddMessage(ctx context.Context, threadID, content string) (*Message, error)
	RunAndPoll(ctx context.Context, threadID string) (*Run, error)
	StreamRun(ctx context.Context, threadID string, onDelta func(text string)) (*Run, error)
	ListMessages(ctx context.Context, threadID string, limit int) ([]Message, error)
	FileContent(ctx context.Context, fileID string) ([]byte, error)
}
