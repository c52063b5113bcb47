package handlers

import (
	"net/http"

	"github.com/Dias221467/HabitFlow/internal/services"
	"github.com/Dias221467/HabitFlow/pkg/logger"
	"github.com/gorilla/mux"
)

// FriendHandler manages HTTP endpoints related to friends.
type FriendHandler struct {
	Service *services.FriendService
}

// NewFriendHandler initializes a new FriendHandler.
func NewFriendHandler(service *services.FriendService) *FriendHandler {
	return &FriendHandler{Service: service}
}

type friendBody struct {
	FriendID string `json:"friend_id"`
}

// GetFriendsHandler lists accepted friends with their goals.
func (h *FriendHandler) GetFriendsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	friends, err := h.Service.GetFriends(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, friends)
}

// SendFriendRequestHandler sends a friend request.
func (h *FriendHandler) SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var body friendBody
	if !decode(w, r, &body) {
		return
	}
	target, err := h.Service.SendFriendRequest(r.Context(), uid, body.FriendID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.Log.Infof("User %s sent a friend request to %s", uid, body.FriendID)
	writeJSON(w, http.StatusCreated, target)
}

// GetPendingRequestsHandler shows all incoming friend requests.
func (h *FriendHandler) GetPendingRequestsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	requests, err := h.Service.PendingRequests(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// AcceptFriendRequestHandler accepts the request sent by friend_id.
func (h *FriendHandler) AcceptFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var body friendBody
	if !decode(w, r, &body) {
		return
	}
	friend, err := h.Service.AcceptFriendRequest(r.Context(), uid, body.FriendID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.Log.Infof("User %s accepted a friend request from %s", uid, body.FriendID)
	writeJSON(w, http.StatusOK, friend)
}

// RejectFriendRequestHandler declines the request sent by friend_id.
func (h *FriendHandler) RejectFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var body friendBody
	if !decode(w, r, &body) {
		return
	}
	if err := h.Service.RejectFriendRequest(r.Context(), uid, body.FriendID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RemoveFriendHandler ends a friendship.
func (h *FriendHandler) RemoveFriendHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if err := h.Service.RemoveFriend(r.Context(), uid, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetFeedHandler returns recent habit and goal activity of friends.
func (h *FriendHandler) GetFeedHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	feed, err := h.Service.Feed(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}
