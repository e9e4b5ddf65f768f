package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"docsync/internal/events"
	"docsync/internal/metrics"
	"docsync/internal/models"
	"docsync/internal/session"
	"docsync/internal/store"
)

// Engine is the single authority over document, presence and session state.
// It consumes client events, mutates the stores, and decides what to
// broadcast to whom. Conflicting edits resolve by last-write-wins on server
// arrival order; nothing is merged. All store mutation for an event
// completes before its fan-out begins, so a slow receiver cannot stall
// concurrent editors.
type Engine struct {
	log      *zap.Logger
	docs     *store.DocumentStore
	rooms    *store.RoomDirectory
	sessions *store.SessionRegistry
	hub      *session.Hub
	pub      *events.Publisher // nil disables the activity mirror
}

func New(log *zap.Logger, pub *events.Publisher) *Engine {
	return &Engine{
		log:      log,
		docs:     store.NewDocumentStore(),
		rooms:    store.NewRoomDirectory(),
		sessions: store.NewSessionRegistry(),
		hub:      session.NewHub(),
		pub:      pub,
	}
}

// HandleConnect announces the server-generated session id to a freshly
// upgraded connection.
func (e *Engine) HandleConnect(c *session.Client) {
	metrics.ClientConnected()
	c.Send(models.WSFrame{
		Type: models.FrameConnected,
		Data: models.Connected{SessionID: c.SessionID()},
	})
	e.log.Info("client connected", zap.String("session_id", c.SessionID()))
}

// HandleJoin binds the connection to an identity, adds it to the document's
// presence set, hands the joiner a full state snapshot, and notifies the
// other members. The member list in the snapshot is taken after the add, so
// it includes the joiner; the user_joined notification skips the joiner.
func (e *Engine) HandleJoin(c *session.Client, req models.JoinDocument) {
	if req.DocumentID == "" {
		e.sendError(c, "document_id is required")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = "user_" + c.SessionID()[:8]
	}

	doc := e.docs.GetOrCreate(req.DocumentID)
	e.rooms.Ensure(req.DocumentID)
	e.rooms.Add(req.DocumentID, userID)
	e.sessions.Bind(c.SessionID(), userID)
	metrics.SetActiveDocuments(e.docs.Count())

	room := e.hub.GetOrCreate(req.DocumentID)
	room.Join(c)

	c.Send(models.WSFrame{
		Type: models.FrameDocumentState,
		Data: models.DocumentState{
			DocumentID:   req.DocumentID,
			Content:      doc.Content,
			Title:        doc.Title,
			LastModified: models.UnixSeconds(doc.LastModified),
			ActiveUsers:  e.rooms.Members(req.DocumentID),
		},
	})

	room.Broadcast(c, models.WSFrame{
		Type: models.FrameUserJoined,
		Data: models.UserPresence{
			UserID:     userID,
			DocumentID: req.DocumentID,
			Timestamp:  models.UnixSeconds(time.Now()),
		},
	})
	metrics.RecordBroadcast(models.FrameUserJoined)

	e.publish(models.FrameUserJoined, req.DocumentID, userID)
	e.log.Info("user joined document",
		zap.String("user_id", userID),
		zap.String("document_id", req.DocumentID))
}

// HandleLeave removes the identity from the document's presence set and
// notifies the remaining members. Without a bound session, or for a document
// the identity never joined, it is a silent no-op.
func (e *Engine) HandleLeave(c *session.Client, req models.LeaveDocument) {
	userID, ok := e.sessions.Lookup(c.SessionID())
	if req.DocumentID == "" || !ok {
		return
	}

	removed := e.rooms.Remove(req.DocumentID, userID)
	if room, exists := e.hub.Get(req.DocumentID); exists {
		if room.Leave(c) == 0 {
			e.hub.Delete(req.DocumentID)
		}
	}
	if !removed {
		return
	}

	e.notifyUserLeft(req.DocumentID, userID)
	e.log.Info("user left document",
		zap.String("user_id", userID),
		zap.String("document_id", req.DocumentID))
}

// HandleTextChange overwrites the document content with the event's payload
// and broadcasts the new content to the other members. The stored
// last_modified is never consulted first: whichever update arrives last at
// the engine wins, even if it was generated earlier on the client.
func (e *Engine) HandleTextChange(c *session.Client, req models.TextChange) {
	userID, ok := e.sessions.Lookup(c.SessionID())
	if req.DocumentID == "" || !ok {
		e.sendError(c, "document_id and user authentication required")
		return
	}

	now := time.Now()
	if !e.docs.SetContent(req.DocumentID, req.Content, now) {
		// Unknown document: no mutation, no broadcast.
		return
	}

	if room, exists := e.hub.Get(req.DocumentID); exists {
		room.Broadcast(c, models.WSFrame{
			Type: models.FrameContentUpdated,
			Data: models.ContentUpdate{
				DocumentID: req.DocumentID,
				Content:    req.Content,
				UserID:     userID,
				Timestamp:  models.UnixSeconds(now),
			},
		})
		metrics.RecordBroadcast(models.FrameContentUpdated)
	}

	e.publish(models.FrameContentUpdated, req.DocumentID, userID)
	e.log.Info("text change",
		zap.String("document_id", req.DocumentID),
		zap.String("user_id", userID),
		zap.Int("content_length", len(req.Content)))
}

// HandleTitleChange mirrors HandleTextChange for the title field.
func (e *Engine) HandleTitleChange(c *session.Client, req models.TitleChange) {
	userID, ok := e.sessions.Lookup(c.SessionID())
	if req.DocumentID == "" || !ok {
		e.sendError(c, "document_id and user authentication required")
		return
	}

	now := time.Now()
	if !e.docs.SetTitle(req.DocumentID, req.Title, now) {
		return
	}

	if room, exists := e.hub.Get(req.DocumentID); exists {
		room.Broadcast(c, models.WSFrame{
			Type: models.FrameTitleUpdated,
			Data: models.TitleUpdate{
				DocumentID: req.DocumentID,
				Title:      req.Title,
				UserID:     userID,
				Timestamp:  models.UnixSeconds(now),
			},
		})
		metrics.RecordBroadcast(models.FrameTitleUpdated)
	}

	e.publish(models.FrameTitleUpdated, req.DocumentID, userID)
	e.log.Info("title change",
		zap.String("document_id", req.DocumentID),
		zap.String("user_id", userID),
		zap.String("title", req.Title))
}

// HandleCursor relays an ephemeral cursor update to the other members.
// Nothing is persisted, and a missing session or document id drops the
// event silently.
func (e *Engine) HandleCursor(c *session.Client, req models.CursorPosition) {
	userID, ok := e.sessions.Lookup(c.SessionID())
	if req.DocumentID == "" || !ok {
		return
	}

	room, exists := e.hub.Get(req.DocumentID)
	if !exists {
		return
	}
	room.Broadcast(c, models.WSFrame{
		Type: models.FrameCursorUpdated,
		Data: models.CursorUpdate{
			DocumentID:     req.DocumentID,
			UserID:         userID,
			Position:       req.Position,
			SelectionStart: req.SelectionStart,
			SelectionEnd:   req.SelectionEnd,
			Timestamp:      models.UnixSeconds(time.Now()),
		},
	})
	metrics.RecordBroadcast(models.FrameCursorUpdated)
}

// HandleDisconnect removes the bound identity from every document it is a
// member of, notifying each document's remaining members, then unbinds the
// session. Safe to call for connections that never joined anything.
func (e *Engine) HandleDisconnect(c *session.Client) {
	metrics.ClientDisconnected()

	userID, ok := e.sessions.Lookup(c.SessionID())
	if !ok {
		return
	}

	for _, docID := range e.rooms.RemoveEverywhere(userID) {
		if room, exists := e.hub.Get(docID); exists {
			if room.Leave(c) == 0 {
				e.hub.Delete(docID)
			}
		}
		e.notifyUserLeft(docID, userID)
	}
	e.sessions.Unbind(c.SessionID())
	e.log.Info("client disconnected",
		zap.String("session_id", c.SessionID()),
		zap.String("user_id", userID))
}

// Snapshot is the read path for the HTTP query surface.
func (e *Engine) Snapshot(docID string) (models.Document, bool) {
	return e.docs.Get(docID)
}

// Stats reports the tracked document count and the total number of present
// users across all documents.
func (e *Engine) Stats() (documents, totalUsers int) {
	return e.docs.Count(), e.rooms.TotalUsers()
}

func (e *Engine) notifyUserLeft(docID, userID string) {
	if room, exists := e.hub.Get(docID); exists {
		room.BroadcastAll(models.WSFrame{
			Type: models.FrameUserLeft,
			Data: models.UserPresence{
				UserID:     userID,
				DocumentID: docID,
				Timestamp:  models.UnixSeconds(time.Now()),
			},
		})
		metrics.RecordBroadcast(models.FrameUserLeft)
	}
	e.publish(models.FrameUserLeft, docID, userID)
}

func (e *Engine) sendError(c *session.Client, msg string) {
	c.Send(models.WSFrame{
		Type: models.FrameError,
		Data: models.ErrorMessage{Message: msg},
	})
}

func (e *Engine) publish(eventType, docID, userID string) {
	if e.pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.pub.Publish(ctx, events.Event{
		Type:       eventType,
		DocumentID: docID,
		UserID:     userID,
	}); err != nil {
		e.log.Warn("failed to publish activity event",
			zap.String("type", eventType),
			zap.String("document_id", docID),
			zap.Error(err))
	}
}
