package handlers

import (
	"net/http"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/services"
	"github.com/gorilla/mux"
)

// EventHandler handles group events.
type EventHandler struct {
	Service *services.EventService
}

func NewEventHandler(service *services.EventService) *EventHandler {
	return &EventHandler{Service: service}
}

// GetEventsHandler lists events the user organizes or was invited to.
func (h *EventHandler) GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	events, err := h.Service.ListEvents(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// CreateEventHandler creates an event organized by the user.
func (h *EventHandler) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var event models.Event
	if !decode(w, r, &event) {
		return
	}
	created, err := h.Service.CreateEvent(r.Context(), uid, &event)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// InviteHandler invites friends. Body: {"friend_ids": [...]}.
func (h *EventHandler) InviteHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var body struct {
		FriendIDs []string `json:"friend_ids"`
	}
	if !decode(w, r, &body) {
		return
	}
	event, err := h.Service.Invite(r.Context(), uid, mux.Vars(r)["id"], body.FriendIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// RSVPHandler answers an invitation. Body: {"attending": bool}.
func (h *EventHandler) RSVPHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var body struct {
		Attending bool `json:"attending"`
	}
	if !decode(w, r, &body) {
		return
	}
	event, err := h.Service.RSVP(r.Context(), uid, mux.Vars(r)["id"], body.Attending)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}
