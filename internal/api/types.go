package api

import "time"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// DeviceResponse is one entry in the device listing.
type DeviceResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Inputs int    `json:"inputs"`
	Rate   int    `json:"rate"`
}

// AutoDetectResponse reports the device with the strongest signal, if any
// device produced audio above the silence threshold.
type AutoDetectResponse struct {
	Success    bool    `json:"success"`
	DeviceID   int     `json:"device_id,omitempty"`
	DeviceName string  `json:"device_name,omitempty"`
	Level      float64 `json:"level,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// NoteListItem is the trimmed note representation in the browser listing.
type NoteListItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Preview  string `json:"preview"`
	Duration string `json:"duration,omitempty"`
	Type     string `json:"type"`
}

// GenerateSummaryRequest selects the analysis provider for a live session.
type GenerateSummaryRequest struct {
	Provider string `json:"provider"`
}

// TokenRequest asks for a client token for the event channel.
type TokenRequest struct {
	ClientID string `json:"client_id"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
