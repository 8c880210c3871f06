package relay

import (
	"strings"

	"autobot/ledger"
	"autobot/models"
	"autobot/tools"
)

// SystemContent joins the tenant's system prompt with its knowledge
// block. Both sections are always present, even when empty, so the
// prompt shape stays stable.
func SystemContent(systemPrompt, knowledgeText string) string {
	return strings.TrimSpace(systemPrompt + "\n\n[KNOWLEDGE_BASE]\n" + knowledgeText)
}

// BuildMessages assembles the full gateway message list in fixed order:
// system content, replayed window, new customer message.
func BuildMessages(systemContent string, window []ledger.Turn, customerText string) []tools.ChatMessage {
	msgs := make([]tools.ChatMessage, 0, len(window)+2)
	msgs = append(msgs, tools.ChatMessage{Role: "system", Content: systemContent})
	for _, turn := range window {
		role := "user"
		if turn.Speaker == models.MESSAGE_ROLE_ASSISTANT {
			role = "assistant"
		}
		msgs = append(msgs, tools.ChatMessage{Role: role, Content: turn.Text})
	}
	msgs = append(msgs, tools.ChatMessage{Role: "user", Content: customerText})
	return msgs
}
