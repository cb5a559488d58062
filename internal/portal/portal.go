// Package portal holds the traveller-facing operations: flight search,
// the contact form and the user's own profile.
package portal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cx-tal-miterani/flightdesk/internal/loading"
	"github.com/cx-tal-miterani/flightdesk/internal/models"
	"github.com/cx-tal-miterani/flightdesk/internal/notify"
	"github.com/cx-tal-miterani/flightdesk/internal/service"
	"github.com/cx-tal-miterani/flightdesk/internal/session"
	"github.com/cx-tal-miterani/flightdesk/internal/validate"
)

const (
	MsgSearchFailed        = "Error Occurred"
	MsgFeedbackLogin       = "Please log in to send a message"
	MsgFeedbackSent        = "Message sent successfully"
	MsgFeedbackFailed      = "Failed to send message"
	MsgLoginRequired       = "Please log in to continue"
	MsgProfileFetchFailed  = "Failed to fetch user details"
	MsgProfileUpdated      = "Profile updated successfully!"
	MsgProfileUpdateFailed = "Failed to update profile"
)

// Backend is the part of the REST API the portal uses.
type Backend interface {
	SearchFlights(ctx context.Context, req models.SearchRequest) ([]models.FlightRecord, error)
	SearchAllFlights(ctx context.Context) ([]models.FlightRecord, error)
	AddFeedback(ctx context.Context, fb models.Feedback) (string, error)
	GetUserDetails(ctx context.Context) (*models.UserProfile, error)
	UpdateUserDetails(ctx context.Context, upd models.ProfileUpdate) (*models.UserProfile, error)
}

// Session is the view of the session the portal needs.
type Session interface {
	Require() error
	View() session.View
}

type Portal struct {
	backend  Backend
	session  Session
	notifier notify.Notifier
	loading  *loading.Indicator
	logger   *slog.Logger
}

func New(backend Backend, sess Session, n notify.Notifier, ind *loading.Indicator, logger *slog.Logger) *Portal {
	if ind == nil {
		ind = loading.New(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Portal{
		backend:  backend,
		session:  sess,
		notifier: n,
		loading:  ind,
		logger:   logger.With("component", "portal"),
	}
}

// Search finds flights matching every field of req. No login is needed.
func (p *Portal) Search(ctx context.Context, req models.SearchRequest) ([]models.FlightRecord, error) {
	if err := validate.Search(req); err != nil {
		p.notifier.Error(err.Error())
		return nil, err
	}
	done := p.loading.Begin()
	defer done()

	flights, err := p.backend.SearchFlights(ctx, req)
	if err != nil {
		p.fail(err, MsgSearchFailed)
		return nil, fmt.Errorf("search flights: %w", err)
	}
	return flights, nil
}

// SearchAll lists every flight. No login is needed.
func (p *Portal) SearchAll(ctx context.Context) ([]models.FlightRecord, error) {
	done := p.loading.Begin()
	defer done()

	flights, err := p.backend.SearchAllFlights(ctx)
	if err != nil {
		p.fail(err, MsgSearchFailed)
		return nil, fmt.Errorf("search all flights: %w", err)
	}
	return flights, nil
}

// SendFeedback submits the contact form. The form is validated before the
// login check, so an anonymous user still sees field errors first.
// Username defaults to the logged-in identity.
func (p *Portal) SendFeedback(ctx context.Context, fb models.Feedback) error {
	if err := validate.Feedback(fb); err != nil {
		p.notifier.Error(err.Error())
		return err
	}
	if err := p.session.Require(); err != nil {
		p.notifier.Error(MsgFeedbackLogin)
		return err
	}
	if fb.Username == "" {
		fb.Username = p.session.View().Identity.Username
	}

	done := p.loading.Begin()
	defer done()

	if _, err := p.backend.AddFeedback(ctx, fb); err != nil {
		p.fail(err, MsgFeedbackFailed)
		return fmt.Errorf("send feedback: %w", err)
	}
	p.notifier.Success(MsgFeedbackSent)
	return nil
}

// Profile fetches the logged-in user's details.
func (p *Portal) Profile(ctx context.Context) (*models.UserProfile, error) {
	if err := p.requireLogin(); err != nil {
		return nil, err
	}
	done := p.loading.Begin()
	defer done()

	user, err := p.backend.GetUserDetails(ctx)
	if err != nil {
		p.fail(err, MsgProfileFetchFailed)
		return nil, fmt.Errorf("get user details: %w", err)
	}
	return user, nil
}

// UpdateProfile validates upd and saves it, returning the stored profile.
func (p *Portal) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.UserProfile, error) {
	if err := validate.Profile(upd); err != nil {
		p.notifier.Error(err.Error())
		return nil, err
	}
	if err := p.requireLogin(); err != nil {
		return nil, err
	}
	done := p.loading.Begin()
	defer done()

	user, err := p.backend.UpdateUserDetails(ctx, upd)
	if err != nil {
		p.fail(err, MsgProfileUpdateFailed)
		return nil, fmt.Errorf("update user details: %w", err)
	}
	p.notifier.Success(MsgProfileUpdated)
	return user, nil
}

func (p *Portal) requireLogin() error {
	if err := p.session.Require(); err != nil {
		p.notifier.Error(MsgLoginRequired)
		return err
	}
	return nil
}

func (p *Portal) fail(err error, fallback string) {
	p.logger.Warn("backend call failed", "error", err)
	p.notifier.Error(service.UserMessage(err, fallback))
}
