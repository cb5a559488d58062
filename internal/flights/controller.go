// Package flights is the admin flight table: it holds the fetched
// collection, derives the filtered and sorted view, and drives edit, delete
// and add against the backend.
package flights

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/cx-tal-miterani/flightdesk/internal/loading"
	"github.com/cx-tal-miterani/flightdesk/internal/models"
	"github.com/cx-tal-miterani/flightdesk/internal/notify"
	"github.com/cx-tal-miterani/flightdesk/internal/service"
	"github.com/cx-tal-miterani/flightdesk/internal/validate"
)

const (
	MsgLoginRequired = "Please log in to continue"
	MsgNotEditing    = "No flight is being edited"
	MsgFlightMissing = "Flight not found"
	MsgFetchFailed   = "Failed to fetch flights"
	MsgUpdated       = "Flight updated successfully"
	MsgUpdateFailed  = "Failed to update flight"
	MsgDeleted       = "Flight deleted successfully"
	MsgDeleteFailed  = "Failed to delete flight"
	MsgAdded         = "Successfully Added Flight"
	MsgAddFailed     = "Authentication failed"

	DeletePrompt = "Are you sure you want to delete this flight?"
)

var (
	ErrNotFound   = errors.New("flight not found")
	ErrNotEditing = errors.New("no flight is being edited")
)

// Backend is the part of the REST API the table uses.
type Backend interface {
	GetAllFlights(ctx context.Context) ([]models.FlightRecord, error)
	AddFlight(ctx context.Context, flight models.FlightRecord) (string, error)
	UpdateFlight(ctx context.Context, id string, flight models.FlightRecord) (string, error)
	DeleteFlight(ctx context.Context, id string) (*models.FlightsResponse, error)
}

// Session gates network operations.
type Session interface {
	Require() error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Config wires a Controller.
type Config struct {
	Backend   Backend
	Session   Session
	Notifier  notify.Notifier
	Loading   *loading.Indicator
	Confirmer Confirmer
	Logger    *slog.Logger
}

// Controller owns the flight table state. Its mutex is never held across a
// backend call, so when calls overlap the last response to arrive wins.
type Controller struct {
	backend  Backend
	session  Session
	notifier notify.Notifier
	loading  *loading.Indicator
	confirm  Confirmer
	logger   *slog.Logger

	mu         sync.Mutex
	collection []models.FlightRecord
	filters    Filters
	sortKey    SortKey
	editingID  string
}

// NewController creates a Controller with an empty collection. A nil
// Confirmer declines every deletion.
func NewController(cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Loading == nil {
		cfg.Loading = loading.New(0)
	}
	if cfg.Confirmer == nil {
		cfg.Confirmer = ConfirmFunc(func(string) bool { return false })
	}
	return &Controller{
		backend:  cfg.Backend,
		session:  cfg.Session,
		notifier: cfg.Notifier,
		loading:  cfg.Loading,
		confirm:  cfg.Confirmer,
		logger:   cfg.Logger.With("component", "flights"),
	}
}

// FetchAll replaces the collection with the backend's. On failure the
// collection is kept.
func (c *Controller) FetchAll(ctx context.Context) error {
	if err := c.gate(); err != nil {
		return err
	}
	done := c.loading.Begin()
	defer done()

	return c.fetch(ctx)
}

func (c *Controller) fetch(ctx context.Context) error {
	flights, err := c.backend.GetAllFlights(ctx)
	if err != nil {
		c.fail(err, MsgFetchFailed)
		return fmt.Errorf("fetch flights: %w", err)
	}
	if flights == nil {
		flights = []models.FlightRecord{}
	}

	c.mu.Lock()
	c.collection = flights
	c.mu.Unlock()
	c.logger.Debug("flights fetched", "count", len(flights))
	return nil
}

// Collection returns a copy of the full, unfiltered collection in fetch order.
func (c *Controller) Collection() []models.FlightRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.collection)
}

func (c *Controller) SetFilter(d Dimension, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, err := c.filters.With(d, value)
	if err != nil {
		return err
	}
	c.filters = f
	return nil
}

func (c *Controller) Filters() Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

func (c *Controller) SetSort(key SortKey) {
	c.mu.Lock()
	c.sortKey = key
	c.mu.Unlock()
}

func (c *Controller) SortKey() SortKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortKey
}

// Visible is the collection after filters and sort, recomputed on each call.
func (c *Controller) Visible() []models.FlightRecord {
	c.mu.Lock()
	collection, f, key := c.collection, c.filters, c.sortKey
	c.mu.Unlock()
	return Apply(collection, f, key)
}

// BeginEdit puts the record with id in edit mode, replacing any previous
// target, and returns a draft copy the caller may change freely.
func (c *Controller) BeginEdit(id string) (models.FlightRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return models.FlightRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.editingID = id
	return c.collection[i], nil
}

// Editing returns the record currently in edit mode, looked up in the
// current collection.
func (c *Controller) Editing() (models.FlightRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editingID == "" {
		return models.FlightRecord{}, false
	}
	i := c.indexOf(c.editingID)
	if i < 0 {
		return models.FlightRecord{}, false
	}
	return c.collection[i], true
}

func (c *Controller) CancelEdit() {
	c.mu.Lock()
	c.editingID = ""
	c.mu.Unlock()
}

// SubmitEdit sends edited as the full replacement of the record in edit
// mode. On success the edit is closed and the collection re-fetched; on
// failure both are left as they were.
func (c *Controller) SubmitEdit(ctx context.Context, edited models.FlightRecord) error {
	c.mu.Lock()
	id := c.editingID
	c.mu.Unlock()
	if id == "" {
		c.notifier.Error(MsgNotEditing)
		return ErrNotEditing
	}
	edited.ID = id
	if err := validate.Flight(edited); err != nil {
		c.notifier.Error(err.Error())
		return err
	}
	if err := c.gate(); err != nil {
		return err
	}

	done := c.loading.Begin()
	defer done()

	msg, err := c.backend.UpdateFlight(ctx, id, edited)
	if err != nil {
		c.fail(err, MsgUpdateFailed)
		return fmt.Errorf("update flight %s: %w", id, err)
	}
	c.notifier.Success(cmp.Or(msg, MsgUpdated))

	c.mu.Lock()
	if c.editingID == id {
		c.editingID = ""
	}
	c.mu.Unlock()

	return c.fetch(ctx)
}

// Delete removes the flight after the Confirmer agrees. deleted is false
// when the user declined; nothing is sent in that case.
func (c *Controller) Delete(ctx context.Context, id string) (deleted bool, err error) {
	if err := c.gate(); err != nil {
		return false, err
	}
	if !c.confirm.Confirm(DeletePrompt) {
		c.logger.Debug("delete declined", "id", id)
		return false, nil
	}

	done := c.loading.Begin()
	defer done()

	resp, err := c.backend.DeleteFlight(ctx, id)
	if err != nil {
		c.fail(err, MsgDeleteFailed)
		return false, fmt.Errorf("delete flight %s: %w", id, err)
	}

	flights := resp.Flights
	if flights == nil {
		flights = []models.FlightRecord{}
	}
	c.mu.Lock()
	c.collection = flights
	if c.editingID == id {
		c.editingID = ""
	}
	c.mu.Unlock()

	c.notifier.Success(cmp.Or(resp.Message, MsgDeleted))
	return true, nil
}

// Add creates a flight. The collection is not touched; call FetchAll to
// see the new record.
func (c *Controller) Add(ctx context.Context, record models.FlightRecord) error {
	record.ID = ""
	if err := validate.Flight(record); err != nil {
		c.notifier.Error(err.Error())
		return err
	}
	if err := c.gate(); err != nil {
		return err
	}

	done := c.loading.Begin()
	defer done()

	if _, err := c.backend.AddFlight(ctx, record); err != nil {
		c.fail(err, MsgAddFailed)
		return fmt.Errorf("add flight: %w", err)
	}
	c.notifier.Success(MsgAdded)
	return nil
}

func (c *Controller) gate() error {
	if err := c.session.Require(); err != nil {
		c.notifier.Error(MsgLoginRequired)
		return err
	}
	return nil
}

func (c *Controller) fail(err error, fallback string) {
	c.logger.Warn("backend call failed", "error", err)
	c.notifier.Error(service.UserMessage(err, fallback))
}

// indexOf must be called with mu held.
func (c *Controller) indexOf(id string) int {
	return slices.IndexFunc(c.collection, func(r models.FlightRecord) bool {
		return r.ID == id
	})
}
