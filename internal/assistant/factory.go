package assistant

import (
	"fmt"

	"github.com/mkoudela/shoplens/internal/config"
)

// New creates an assistant client based on configuration
func New(cfg *config.AssistantConfig) (Client, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIClient(cfg.AssistantID, cfg.APIKeyEnv, cfg.APIKey)
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unsupported assistant provider: %s", cfg.Provider)
	}
}

// SeedMessages builds the opening messages for a new analysis thread: the
// data-catalog briefing plus one attachment per uploaded dataset file.
func SeedMessages(cfg *config.AssistantConfig) []MessageInput {
	content := cfg.InitialMessage
	if content == "" {
		content = defaultInitialMessage
	}

	attachments := make([]Attachment, 0, len(cfg.FileIDs))
	for _, id := range cfg.FileIDs {
		attachments = append(attachments, Attachment{
			FileID: id,
			Tools:  []Tool{{Type: "code_interpreter"}},
		})
	}

	return []MessageInput{{
		Role:        RoleUser,
		Content:     content,
		Attachments: attachments,
	}}
}

const defaultInitialMessage = `You are a data analyst for an e-commerce company. ` +
	`The attached CSV files hold the company's operational data: customers, ` +
	`orders, order lines, products, channels, facilities, campaigns, campaign ` +
	`attributions, digital sites, digital events, sales plans, inventory and ` +
	`order fulfillments. Dates use YYYY-MM-DD. Use the code interpreter to ` +
	`answer questions with concrete numbers, and produce charts when a ` +
	`visual helps.`
