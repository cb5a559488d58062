package stubapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cx-tal-miterani/flightdesk/internal/models"
	"github.com/cx-tal-miterani/flightdesk/internal/validate"
	"github.com/gorilla/mux"
)

// Handler contains HTTP handlers for the stub API
type Handler struct {
	repo   *Repository
	issuer *Issuer
	logger *slog.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(repo *Repository, issuer *Issuer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		repo:   repo,
		issuer: issuer,
		logger: logger,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.MessageResponse{Message: message})
}

// RequireAuth rejects requests without a valid bearer token. A non-empty
// role must also match the token's role.
func (h *Handler) RequireAuth(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			respondError(w, http.StatusUnauthorized, "No token provided")
			return
		}
		claims, err := h.issuer.Parse(raw)
		if err != nil {
			h.logger.Debug("token rejected", "error", err)
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		if role != "" && claims.Role != role {
			respondError(w, http.StatusForbidden, "Access denied")
			return
		}
		next(w, r.WithContext(withClaims(r.Context(), claims)))
	}
}

// Verify handles GET /api/auth/verify
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	respondJSON(w, http.StatusOK, models.Identity{Username: claims.Subject, Email: claims.Email})
}

// SearchFlight handles POST /api/searchFlight
func (h *Handler) SearchFlight(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Search(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	flights, err := h.repo.SearchFlights(r.Context(), req)
	if err != nil {
		h.internal(w, "search flights", err)
		return
	}
	if len(flights) == 0 {
		respondError(w, http.StatusNotFound, "No flights found")
		return
	}
	respondJSON(w, http.StatusOK, models.FlightsResponse{Flights: flights})
}

// SearchAllFlights handles POST /api/searchAllFlights
func (h *Handler) SearchAllFlights(w http.ResponseWriter, r *http.Request) {
	flights, err := h.repo.GetAllFlights(r.Context())
	if err != nil {
		h.internal(w, "list flights", err)
		return
	}
	respondJSON(w, http.StatusOK, models.FlightsResponse{Flights: flights})
}

// AddFeedback handles POST /api/feedback/addFeedback
func (h *Handler) AddFeedback(w http.ResponseWriter, r *http.Request) {
	var fb models.Feedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Feedback(fb); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fb.Username == "" {
		claims, _ := ClaimsFrom(r.Context())
		fb.Username = claims.Subject
	}

	if err := h.repo.AddFeedback(r.Context(), fb); err != nil {
		h.internal(w, "store feedback", err)
		return
	}
	respondJSON(w, http.StatusCreated, models.MessageResponse{Message: "Feedback submitted"})
}

// GetUserDetails handles GET /api/getuserdetails
func (h *Handler) GetUserDetails(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	user, err := h.repo.GetUser(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.internal(w, "get user", err)
		return
	}
	respondJSON(w, http.StatusOK, models.UserResponse{User: user.UserProfile})
}

// UpdateUserDetails handles PUT /api/updateuserdetails
func (h *Handler) UpdateUserDetails(w http.ResponseWriter, r *http.Request) {
	var upd models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Profile(upd); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims, _ := ClaimsFrom(r.Context())
	user, err := h.repo.UpdateUser(r.Context(), claims.Subject, upd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.internal(w, "update user", err)
		return
	}
	respondJSON(w, http.StatusOK, models.UserResponse{User: user.UserProfile, Message: "User details updated"})
}

// AddFlight handles POST /api/admin/addflight
func (h *Handler) AddFlight(w http.ResponseWriter, r *http.Request) {
	var f models.FlightRecord
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Flight(f); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.repo.CreateFlight(r.Context(), f)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			respondError(w, http.StatusConflict, "Flight already exists")
			return
		}
		h.internal(w, "create flight", err)
		return
	}
	h.logger.Info("flight added", "id", created.ID, "flightNo", created.FlightNo)
	respondJSON(w, http.StatusCreated, models.MessageResponse{Message: "Flight added successfully"})
}

// GetAllFlights handles GET /api/admin/getallflights
func (h *Handler) GetAllFlights(w http.ResponseWriter, r *http.Request) {
	flights, err := h.repo.GetAllFlights(r.Context())
	if err != nil {
		h.internal(w, "list flights", err)
		return
	}
	respondJSON(w, http.StatusOK, models.FlightsResponse{Flights: flights})
}

// UpdateFlight handles PUT /api/admin/updateFlight/{id}
func (h *Handler) UpdateFlight(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var f models.FlightRecord
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Flight(f); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.UpdateFlight(r.Context(), id, f); err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(w, http.StatusNotFound, "Flight not found")
			return
		}
		h.internal(w, "update flight", err)
		return
	}
	respondJSON(w, http.StatusOK, models.MessageResponse{Message: "Flight updated successfully"})
}

// DeleteFlight handles DELETE /api/admin/deleteflight/{id}
func (h *Handler) DeleteFlight(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	remaining, err := h.repo.DeleteFlight(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(w, http.StatusNotFound, "Flight not found")
			return
		}
		h.internal(w, "delete flight", err)
		return
	}
	respondJSON(w, http.StatusOK, models.FlightsResponse{Flights: remaining, Message: "Flight deleted successfully"})
}

func (h *Handler) internal(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, "error", err)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
