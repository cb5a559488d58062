package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cx-tal-miterani/flightdesk/internal/models"
	"github.com/google/uuid"
)

const (
	DefaultTimeout  = 15 * time.Second
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 4 << 20
)

// TokenSource supplies the bearer token for authenticated calls
type TokenSource interface {
	Token() string
}

// BackendService is the flight-booking REST API as the client consumes it
type BackendService interface {
	Verify(ctx context.Context, token string) (models.Identity, error)
	SearchFlights(ctx context.Context, req models.SearchRequest) ([]models.FlightRecord, error)
	SearchAllFlights(ctx context.Context) ([]models.FlightRecord, error)
	AddFeedback(ctx context.Context, fb models.Feedback) (string, error)
	GetUserDetails(ctx context.Context) (*models.UserProfile, error)
	UpdateUserDetails(ctx context.Context, upd models.ProfileUpdate) (*models.UserProfile, error)
	AddFlight(ctx context.Context, flight models.FlightRecord) (string, error)
	GetAllFlights(ctx context.Context) ([]models.FlightRecord, error)
	UpdateFlight(ctx context.Context, id string, flight models.FlightRecord) (string, error)
	DeleteFlight(ctx context.Context, id string) (*models.FlightsResponse, error)
}

// Config configures the REST client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     TokenSource
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// backendServiceImpl implements BackendService over HTTP
type backendServiceImpl struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
	logger  *slog.Logger
}

// NewBackendService creates a new BackendService
func NewBackendService(cfg Config) BackendService {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &backendServiceImpl{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tokens:  cfg.Tokens,
		client:  cfg.HTTPClient,
		logger:  cfg.Logger,
	}
}

func (s *backendServiceImpl) Verify(ctx context.Context, token string) (models.Identity, error) {
	var body struct {
		models.Identity
		User *models.Identity `json:"user"`
	}
	status, err := s.do(ctx, http.MethodGet, "/api/auth/verify", bearer(token), nil, &body)
	if err != nil {
		return models.Identity{}, err
	}
	if status != http.StatusOK {
		return models.Identity{}, &APIError{Status: status}
	}
	if body.Identity.Empty() && body.User != nil {
		return *body.User, nil
	}
	return body.Identity, nil
}

func (s *backendServiceImpl) SearchFlights(ctx context.Context, req models.SearchRequest) ([]models.FlightRecord, error) {
	var resp models.FlightsResponse
	if _, err := s.do(ctx, http.MethodPost, "/api/searchFlight", "", req, &resp); err != nil {
		return nil, err
	}
	return resp.Flights, nil
}

func (s *backendServiceImpl) SearchAllFlights(ctx context.Context) ([]models.FlightRecord, error) {
	var resp models.FlightsResponse
	if _, err := s.do(ctx, http.MethodPost, "/api/searchAllFlights", "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Flights, nil
}

func (s *backendServiceImpl) AddFeedback(ctx context.Context, fb models.Feedback) (string, error) {
	var resp models.MessageResponse
	if _, err := s.do(ctx, http.MethodPost, "/api/feedback/addFeedback", s.bearer(), fb, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (s *backendServiceImpl) GetUserDetails(ctx context.Context) (*models.UserProfile, error) {
	var resp models.UserResponse
	if _, err := s.do(ctx, http.MethodGet, "/api/getuserdetails", s.bearer(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (s *backendServiceImpl) UpdateUserDetails(ctx context.Context, upd models.ProfileUpdate) (*models.UserProfile, error) {
	var resp models.UserResponse
	if _, err := s.do(ctx, http.MethodPut, "/api/updateuserdetails", s.bearer(), upd, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (s *backendServiceImpl) AddFlight(ctx context.Context, flight models.FlightRecord) (string, error) {
	var resp models.MessageResponse
	if _, err := s.do(ctx, http.MethodPost, "/api/admin/addflight", s.bearer(), flight, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (s *backendServiceImpl) GetAllFlights(ctx context.Context) ([]models.FlightRecord, error) {
	var resp models.FlightsResponse
	if _, err := s.do(ctx, http.MethodGet, "/api/admin/getallflights", s.bearer(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Flights, nil
}

func (s *backendServiceImpl) UpdateFlight(ctx context.Context, id string, flight models.FlightRecord) (string, error) {
	var resp models.MessageResponse
	path := "/api/admin/updateFlight/" + url.PathEscape(id)
	if _, err := s.do(ctx, http.MethodPut, path, s.bearer(), flight, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (s *backendServiceImpl) DeleteFlight(ctx context.Context, id string) (*models.FlightsResponse, error) {
	var resp models.FlightsResponse
	path := "/api/admin/deleteflight/" + url.PathEscape(id)
	if _, err := s.do(ctx, http.MethodDelete, path, s.bearer(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *backendServiceImpl) bearer() string {
	if s.tokens == nil {
		return ""
	}
	return bearer(s.tokens.Token())
}

func bearer(token string) string {
	if token == "" {
		return ""
	}
	return "Bearer " + token
}

// do sends one request and decodes a 2xx body into out. Non-2xx answers
// become *APIError carrying the backend's message when it sent one.
func (s *backendServiceImpl) do(ctx context.Context, method, path, authorization string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("marshal %s body: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("create %s request: %w", path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("backend request failed", "request_id", requestID, "method", method, "path", path, "error", err)
		return 0, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	s.logger.Debug("backend request",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%w: read %s response: %v", ErrUnavailable, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg models.MessageResponse
		if json.Unmarshal(raw, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return resp.StatusCode, apiErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: decode %s response: %v", ErrMalformedResponse, path, err)
		}
	}
	return resp.StatusCode, nil
}
