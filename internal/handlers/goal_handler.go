package handlers

import (
	"net/http"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/services"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// GoalHandler handles HTTP requests related to goals.
type GoalHandler struct {
	Service *services.GoalService
}

func NewGoalHandler(service *services.GoalService) *GoalHandler {
	return &GoalHandler{Service: service}
}

// GetGoalsHandler lists the goals of the logged-in user.
func (h *GoalHandler) GetGoalsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	goals, err := h.Service.ListGoals(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

// CreateGoalHandler creates a goal with no progress.
func (h *GoalHandler) CreateGoalHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var goal models.Goal
	if !decode(w, r, &goal) {
		return
	}
	created, err := h.Service.CreateGoal(r.Context(), uid, &goal)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateGoalHandler edits title, target or deadline of a goal.
func (h *GoalHandler) UpdateGoalHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var update models.GoalUpdate
	if !decode(w, r, &update) {
		return
	}
	goal, err := h.Service.UpdateGoal(r.Context(), uid, mux.Vars(r)["id"], update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// DeleteGoalHandler deletes a goal.
func (h *GoalHandler) DeleteGoalHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteGoal(r.Context(), uid, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// AddProgressHandler adds an amount to a goal.
func (h *GoalHandler) AddProgressHandler(w http.ResponseWriter, r *http.Request) {
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

	goalID := mux.Vars(r)["id"]
	res, err := h.Service.AddProgress(r.Context(), uid, goalID, body.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !confirm(w, r, res) {
		return
	}

	resp := mutationResponse{Entry: res.Entry, Warnings: warnings(res)}
	if goal, ok := res.State.Goal(goalID); ok {
		resp.Goal = &goal
	}
	logrus.WithFields(logrus.Fields{"userID": uid, "goalID": goalID, "amount": body.Amount}).Info("Goal progress added")
	writeJSON(w, http.StatusOK, resp)
}
