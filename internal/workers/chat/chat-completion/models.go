// internal/workers/chat/chat-completion/models.go
package chatcompletion

import "nanolez-eduai/internal/ai"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Input struct {
	Messages []ai.Message `json:"messages"`
}

type Output struct {
	Content string `json:"content"`
}
