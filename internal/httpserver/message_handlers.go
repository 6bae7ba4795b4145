package httpserver

import (
	"net/http"

	"movieclub/internal/service"
	"movieclub/internal/ws"
)

type sendMessageRequest struct {
	ReceiverID int64  `json:"receiver_id"`
	Content    string `json:"content"`
}

func handleSendMessage(msgSvc *service.MessageService, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		sender := CurrentUser(r)
		msg, err := msgSvc.Send(r.Context(), sender.ID, req.ReceiverID, req.Content)
		if err != nil {
			writeError(w, err)
			return
		}

		// Best-effort push to the receiver's open connections.
		hub.BroadcastToUsers([]int64{msg.ReceiverID}, ws.Event{
			Type:    ws.EventMessageNew,
			Payload: msg,
		})

		writeJSON(w, http.StatusCreated, msg)
	}
}

func handleOpenConversation(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		otherID, err := pathID(r, "userID")
		if err != nil {
			writeError(w, err)
			return
		}
		msgs, err := msgSvc.Open(r.Context(), CurrentUser(r).ID, otherID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

func handleListConversations(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		convs, err := msgSvc.Conversations(r.Context(), CurrentUser(r).ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, convs)
	}
}

func handleUnreadCount(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := msgSvc.UnreadCount(r.Context(), CurrentUser(r).ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"unread": count})
	}
}
