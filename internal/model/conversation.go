// Package model defines data structures for the booking assistant.
package model

// SendChatMessageRequest is the request to post a user chat message.
type SendChatMessageRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

// ListChatMessagesResponse is the response for reading a transcript.
type ListChatMessagesResponse struct {
	Messages []ChatMessage `json:"messages"`
}

// SupervisorReplyRequest injects a supervisor reply into a conversation.
// EscalationID is optional; it is set when the reply could be correlated
// to a specific escalation.
type SupervisorReplyRequest struct {
	Message      string `json:"message"`
	EscalationID string `json:"escalation_id,omitempty"`
}

// SupervisorReplyResponse reports what happened to an injected reply.
type SupervisorReplyResponse struct {
	Status        string        `json:"status"`
	Reason        string        `json:"reason,omitempty"`
	EscalationID  string        `json:"escalation_id,omitempty"`
	BookingID     string        `json:"booking_id,omitempty"`
	BookingStatus BookingStatus `json:"booking_status,omitempty"`
}
