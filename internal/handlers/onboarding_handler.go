package handlers

import (
	"net/http"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/services"
)

// OnboardingHandler serves starter templates and first-run setup.
type OnboardingHandler struct {
	Service *services.OnboardingService
}

func NewOnboardingHandler(service *services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{Service: service}
}

// GetTemplatesHandler lists the starter templates.
func (h *OnboardingHandler) GetTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.Templates())
}

// OnboardHandler creates the selected habits and goals.
func (h *OnboardingHandler) OnboardHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var sel models.OnboardingSelection
	if !decode(w, r, &sel) {
		return
	}
	result, err := h.Service.Onboard(r.Context(), uid, sel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
