package models

import "time"

// WSFrame is the JSON envelope for every WebSocket message in both directions.
type WSFrame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Inbound frame types (client -> server).
const (
	FrameJoinDocument   = "join_document"
	FrameLeaveDocument  = "leave_document"
	FrameTextChange     = "text_change"
	FrameTitleChange    = "title_change"
	FrameCursorPosition = "cursor_position"
)

// Outbound frame types (server -> client).
const (
	FrameConnected      = "connected"
	FrameDocumentState  = "document_state"
	FrameUserJoined     = "user_joined"
	FrameUserLeft       = "user_left"
	FrameContentUpdated = "content_updated"
	FrameTitleUpdated   = "title_updated"
	FrameCursorUpdated  = "cursor_updated"
	FrameError          = "error"
)

const DefaultTitle = "Untitled Document"

// Document is the authoritative in-memory state for one document id.
// LastModified only moves forward: it is stamped with the server arrival
// time of every accepted content or title mutation.
type Document struct {
	ID           string
	Content      string
	Title        string
	CreatedAt    time.Time
	LastModified time.Time
}

// UnixSeconds renders an instant as float epoch seconds, the wire format
// used for every timestamp field in the protocol.
func UnixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

/*** Inbound payloads ***/

type JoinDocument struct {
	DocumentID string `json:"document_id"`
	UserID     string `json:"user_id,omitempty"`
}

type LeaveDocument struct {
	DocumentID string `json:"document_id"`
}

type TextChange struct {
	DocumentID string `json:"document_id"`
	Content    string `json:"content"`
}

type TitleChange struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
}

type CursorPosition struct {
	DocumentID     string `json:"document_id"`
	Position       int    `json:"position"`
	SelectionStart int    `json:"selection_start"`
	SelectionEnd   int    `json:"selection_end"`
}

/*** Outbound payloads ***/

type Connected struct {
	SessionID string `json:"session_id"`
}

// DocumentState is the full snapshot handed to a client on join. ActiveUsers
// is taken after the joiner's own add, so it always contains the joiner.
type DocumentState struct {
	DocumentID   string   `json:"document_id"`
	Content      string   `json:"content"`
	Title        string   `json:"title"`
	LastModified float64  `json:"last_modified"`
	ActiveUsers  []string `json:"active_users"`
}

// UserPresence is the payload of both user_joined and user_left.
type UserPresence struct {
	UserID     string  `json:"user_id"`
	DocumentID string  `json:"document_id"`
	Timestamp  float64 `json:"timestamp"`
}

type ContentUpdate struct {
	DocumentID string  `json:"document_id"`
	Content    string  `json:"content"`
	UserID     string  `json:"user_id"`
	Timestamp  float64 `json:"timestamp"`
}

type TitleUpdate struct {
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	UserID     string  `json:"user_id"`
	Timestamp  float64 `json:"timestamp"`
}

type CursorUpdate struct {
	DocumentID     string  `json:"document_id"`
	UserID         string  `json:"user_id"`
	Position       int     `json:"position"`
	SelectionStart int     `json:"selection_start"`
	SelectionEnd   int     `json:"selection_end"`
	Timestamp      float64 `json:"timestamp"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

/*** HTTP payloads ***/

type DocumentResponse struct {
	ID           string  `json:"id"`
	Content      string  `json:"content"`
	Title        string  `json:"title"`
	LastModified float64 `json:"last_modified"`
}

type StatusResponse struct {
	Status          string  `json:"status"`
	Message         string  `json:"message"`
	Timestamp       float64 `json:"timestamp"`
	ActiveDocuments int     `json:"active_documents"`
	TotalUsers      int     `json:"total_users"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
