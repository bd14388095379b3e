package models

// OutboundMessageRequest is a text message pushed to a WhatsApp recipient.
// An empty To means the configured report recipient.
type OutboundMessageRequest struct {
	To         string `json:"to"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}
