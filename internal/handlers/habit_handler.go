package handlers

import (
	"net/http"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/services"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// HabitHandler handles HTTP requests related to habits.
type HabitHandler struct {
	Service *services.HabitService
}

func NewHabitHandler(service *services.HabitService) *HabitHandler {
	return &HabitHandler{Service: service}
}

// GetHabitsHandler lists the habits of the logged-in user.
func (h *HabitHandler) GetHabitsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	habits, err := h.Service.ListHabits(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, habits)
}

// GetInsightsHandler returns streak and completion stats per habit.
func (h *HabitHandler) GetInsightsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	stats, err := h.Service.Insights(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// CreateHabitHandler creates a habit.
func (h *HabitHandler) CreateHabitHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var habit models.Habit
	if !decode(w, r, &habit) {
		return
	}
	created, err := h.Service.CreateHabit(r.Context(), uid, &habit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateHabitHandler edits title, description or category of a habit.
func (h *HabitHandler) UpdateHabitHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var update services.HabitUpdate
	if !decode(w, r, &update) {
		return
	}
	habit, err := h.Service.UpdateHabit(r.Context(), uid, mux.Vars(r)["id"], update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

// DeleteHabitHandler deletes a habit.
func (h *HabitHandler) DeleteHabitHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteHabit(r.Context(), uid, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ToggleHabitHandler advances the entry of a habit for the given date.
func (h *HabitHandler) ToggleHabitHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var body struct {
		Date string `json:"date"`
	}
	if !decode(w, r, &body) {
		return
	}

	habitID := mux.Vars(r)["id"]
	res, err := h.Service.ToggleHabit(r.Context(), uid, habitID, body.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !confirm(w, r, res) {
		return
	}

	resp := mutationResponse{Entry: res.Entry, Warnings: warnings(res)}
	if habit, ok := res.State.Habit(habitID); ok {
		resp.Habit = &habit
	}
	logrus.WithFields(logrus.Fields{"userID": uid, "habitID": habitID, "date": body.Date}).Info("Habit toggled")
	writeJSON(w, http.StatusOK, resp)
}
