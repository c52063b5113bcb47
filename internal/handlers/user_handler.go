package handlers

import (
	"net/http"

	"github.com/Dias221467/HabitFlow/internal/config"
	"github.com/Dias221467/HabitFlow/internal/services"
	jwtutil "github.com/Dias221467/HabitFlow/pkg/jwt"
	log "github.com/sirupsen/logrus"
)

// UserHandler handles HTTP requests related to user operations.
type UserHandler struct {
	Service *services.UserService
	Config  *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Service: service,
		Config:  cfg,
	}
}

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUserHandler handles user registration.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("RegisterUserHandler called")
	var body credentials
	if !decode(w, r, &body) {
		return
	}

	user, err := h.Service.RegisterUser(r.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.WithField("userID", user.ID).Info("User registered successfully")
	writeJSON(w, http.StatusCreated, user)
}

// LoginUserHandler authenticates the user and returns a bearer token.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("LoginUserHandler called")
	var body credentials
	if !decode(w, r, &body) {
		return
	}

	user, err := h.Service.AuthenticateUser(r.Context(), body.Email, body.Password)
	if err != nil {
		log.WithField("email", body.Email).WithError(err).Warn("Authentication failed")
		writeError(w, r, err)
		return
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Email, user.Role, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	log.WithField("userID", user.ID).Info("User logged in successfully")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// GetMeHandler returns the logged-in user.
func (h *UserHandler) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	user, err := h.Service.GetUser(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateMeHandler changes name or avatar of the logged-in user.
func (h *UserHandler) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var update services.ProfileUpdate
	if !decode(w, r, &update) {
		return
	}
	user, err := h.Service.UpdateProfile(r.Context(), uid, update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.WithField("userID", uid).Info("User updated successfully")
	writeJSON(w, http.StatusOK, user)
}

// DeleteMeHandler deletes the logged-in user and everything they own.
func (h *UserHandler) DeleteMeHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteUser(r.Context(), uid); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// SearchUsersHandler finds users to befriend. Query: q.
func (h *UserHandler) SearchUsersHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	users, err := h.Service.SearchUsers(r.Context(), uid, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
