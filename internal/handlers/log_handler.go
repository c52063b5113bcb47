package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/services"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// LogHandler serves the activity timeline and its edits.
type LogHandler struct {
	Service *services.ActivityService
}

func NewLogHandler(service *services.ActivityService) *LogHandler {
	return &LogHandler{Service: service}
}

// GetLogsHandler returns the timeline. Query: limit, type, grouped=true.
func (h *LogHandler) GetLogsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	q := services.TimelineQuery{Type: models.ActivityType(r.URL.Query().Get("type"))}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		q.Limit = limit
	}

	if grouped, _ := strconv.ParseBool(r.URL.Query().Get("grouped")); grouped {
		groups, err := h.Service.GroupedTimeline(r.Context(), uid, q)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, groups)
		return
	}

	logs, err := h.Service.Timeline(r.Context(), uid, q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// EditLogHandler corrects the amount of a goal progress entry.
func (h *LogHandler) EditLogHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var body struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if !decode(w, r, &body) {
		return
	}
	res, err := h.Service.EditEntry(r.Context(), uid, mux.Vars(r)["id"], body.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respond(w, r, res, mux.Vars(r)["id"])
}

// ReverseLogHandler reverses a reversible entry.
func (h *LogHandler) ReverseLogHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	res, err := h.Service.ReverseEntry(r.Context(), uid, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respond(w, r, res, mux.Vars(r)["id"])
}

func (h *LogHandler) respond(w http.ResponseWriter, r *http.Request, res *services.Result, logID string) {
	if !confirm(w, r, res) {
		return
	}
	resp := mutationResponse{Warnings: warnings(res)}
	if entry, ok := res.State.Log(logID); ok {
		resp.Entry = &entry
	}
	writeJSON(w, http.StatusOK, resp)
}
