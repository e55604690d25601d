package model

import (
	"time"
)

// Role represents the role of a chat message author.
type Role string

const (
	RoleUser       Role = "user"
	RoleAssistant  Role = "assistant"
	RoleSupervisor Role = "supervisor"
	RoleSystem     Role = "system"
)

// ChatMessage is one entry of a conversation transcript.
type ChatMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           Role      `json:"role"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}
