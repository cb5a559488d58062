package stubapi

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/cx-tal-miterani/flightdesk/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// User is a stored account. Role "admin" unlocks the admin routes.
type User struct {
	models.UserProfile
	Role string
}

// Repository keeps the stub backend's data in memory
type Repository struct {
	mu       sync.RWMutex
	flights  []models.FlightRecord
	users    map[string]User
	feedback []models.Feedback
}

// NewRepository creates an empty repository
func NewRepository() *Repository {
	return &Repository{users: make(map[string]User)}
}

// --- Flight Operations ---

// GetAllFlights returns every flight in insertion order
func (r *Repository) GetAllFlights(ctx context.Context) ([]models.FlightRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.flights), nil
}

// SearchFlights returns the flights matching every field of req. Cities
// compare case-insensitively; the date compares on its calendar part.
func (r *Repository) SearchFlights(ctx context.Context, req models.SearchRequest) ([]models.FlightRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.FlightRecord{}
	for _, f := range r.flights {
		if !strings.EqualFold(f.From, req.From) || !strings.EqualFold(f.To, req.To) {
			continue
		}
		if f.DatePart() != models.DatePart(req.Date) || string(f.Category) != req.Category {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// GetFlightByID returns a flight by ID
func (r *Repository) GetFlightByID(ctx context.Context, id string) (*models.FlightRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.flightIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	f := r.flights[i]
	return &f, nil
}

// CreateFlight stores f under a new ID and returns it
func (r *Repository) CreateFlight(ctx context.Context, f models.FlightRecord) (*models.FlightRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.flights {
		if strings.EqualFold(existing.FlightNo, f.FlightNo) && existing.DatePart() == f.DatePart() {
			return nil, fmt.Errorf("flight %s on %s: %w", f.FlightNo, f.DatePart(), ErrDuplicate)
		}
	}
	f.ID = uuid.NewString()
	r.flights = append(r.flights, f)
	return &f, nil
}

// UpdateFlight replaces the flight with id, keeping its position
func (r *Repository) UpdateFlight(ctx context.Context, id string, f models.FlightRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.flightIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	f.ID = id
	r.flights[i] = f
	return nil
}

// DeleteFlight removes a flight and returns the remaining ones
func (r *Repository) DeleteFlight(ctx context.Context, id string) ([]models.FlightRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.flightIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	r.flights = slices.Delete(r.flights, i, i+1)
	return slices.Clone(r.flights), nil
}

func (r *Repository) flightIndex(id string) int {
	return slices.IndexFunc(r.flights, func(f models.FlightRecord) bool { return f.ID == id })
}

// --- User Operations ---

// CreateUser adds an account
func (r *Repository) CreateUser(ctx context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Username]; ok {
		return fmt.Errorf("user %s: %w", u.Username, ErrDuplicate)
	}
	r.users[u.Username] = u
	return nil
}

// GetUser returns an account by username
func (r *Repository) GetUser(ctx context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// UpdateUser applies the editable profile fields
func (r *Repository) UpdateUser(ctx context.Context, username string, upd models.ProfileUpdate) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	u.FirstName = upd.FirstName
	u.LastName = upd.LastName
	u.Mobile = upd.Mobile
	u.Address = upd.Address
	r.users[username] = u
	return &u, nil
}

// --- Feedback Operations ---

func (r *Repository) AddFeedback(ctx context.Context, fb models.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feedback = append(r.feedback, fb)
	return nil
}

func (r *Repository) Feedback(ctx context.Context) ([]models.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.feedback), nil
}
