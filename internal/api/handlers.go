package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"docsync/internal/engine"
	"docsync/internal/metrics"
	"docsync/internal/models"
	"docsync/internal/session"
)

type Handlers struct {
	log    *zap.Logger
	engine *engine.Engine
}

func NewHandlers(log *zap.Logger, eng *engine.Engine) *Handlers {
	return &Handlers{log: log, engine: eng}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

// Status reports the same aggregate counters the synchronization protocol
// mutates: tracked documents and total present users.
func (h *Handlers) Status(w http.ResponseWriter, _ *http.Request) {
	docs, users := h.engine.Stats()
	writeJSON(w, http.StatusOK, models.StatusResponse{
		Status:          "ok",
		Message:         "document sync server is running",
		Timestamp:       models.UnixSeconds(time.Now()),
		ActiveDocuments: docs,
		TotalUsers:      users,
	})
}

// GetDocument is the HTTP backup read path into the document store.
func (h *Handlers) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, ok := h.engine.Snapshot(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Document not found"})
		return
	}
	writeJSON(w, http.StatusOK, models.DocumentResponse{
		ID:           doc.ID,
		Content:      doc.Content,
		Title:        doc.Title,
		LastModified: models.UnixSeconds(doc.LastModified),
	})
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// DocumentWS upgrades the connection and runs its event loop. Every inbound
// frame is dispatched to the engine; a read error is treated as an implicit
// disconnect.
func (h *Handlers) DocumentWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	client := session.NewClient(conn)
	h.engine.HandleConnect(client)
	defer h.engine.HandleDisconnect(client)

	for {
		var frame models.WSFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		metrics.RecordInboundEvent(frame.Type)

		switch frame.Type {
		case models.FrameJoinDocument:
			var req models.JoinDocument
			marshal(frame.Data, &req)
			h.engine.HandleJoin(client, req)

		case models.FrameLeaveDocument:
			var req models.LeaveDocument
			marshal(frame.Data, &req)
			h.engine.HandleLeave(client, req)

		case models.FrameTextChange:
			var req models.TextChange
			marshal(frame.Data, &req)
			h.engine.HandleTextChange(client, req)

		case models.FrameTitleChange:
			var req models.TitleChange
			marshal(frame.Data, &req)
			h.engine.HandleTitleChange(client, req)

		case models.FrameCursorPosition:
			var req models.CursorPosition
			marshal(frame.Data, &req)
			h.engine.HandleCursor(client, req)

		default:
			client.Send(errFrame("unknown_type"))
		}
	}
}

func marshal(in any, out any) { b, _ := json.Marshal(in); _ = json.Unmarshal(b, out) }

func errFrame(msg string) models.WSFrame {
	return models.WSFrame{Type: models.FrameError, Data: models.ErrorMessage{Message: msg}}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
