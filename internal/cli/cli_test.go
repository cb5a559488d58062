package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cx-tal-miterani/flightdesk/internal/models"
	"github.com/cx-tal-miterani/flightdesk/internal/session"
	"github.com/cx-tal-miterani/flightdesk/internal/stubapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backendFixture struct {
	url        string
	repo       *stubapi.Repository
	userToken  string
	adminToken string
}

func startBackend(t *testing.T) *backendFixture {
	t.Helper()
	ctx := context.Background()
	repo := stubapi.NewRepository()
	require.NoError(t, stubapi.Seed(ctx, repo))
	issuer, err := stubapi.NewIssuer("cli-test", time.Hour)
	require.NoError(t, err)

	srv := httptest.NewServer(stubapi.NewRouter(stubapi.NewHandler(repo, issuer, nil)))
	t.Cleanup(srv.Close)

	token := func(name string) string {
		u, err := repo.GetUser(ctx, name)
		require.NoError(t, err)
		tok, err := issuer.Issue(*u)
		require.NoError(t, err)
		return tok
	}
	return &backendFixture{
		url:        srv.URL,
		repo:       repo,
		userToken:  token(stubapi.SeedUser),
		adminToken: token(stubapi.SeedAdmin),
	}
}

type result struct {
	code   int
	stdout string
	stderr string
}

type harness struct {
	t       *testing.T
	backend string
	db      string
}

func newHarness(t *testing.T, backendURL string) *harness {
	return &harness{t: t, backend: backendURL, db: filepath.Join(t.TempDir(), "flightdesk.db")}
}

func (h *harness) runWithInput(stdin string, args ...string) result {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	app := App{
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(k string) string {
			if k == "FLIGHTDESK_MIN_LOADING" {
				return "0s"
			}
			return ""
		},
	}
	full := append([]string{"--backend", h.backend, "--db", h.db}, args...)
	code := app.Run(full)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func (h *harness) run(args ...string) result {
	h.t.Helper()
	return h.runWithInput("", args...)
}

func (h *harness) login(token string) {
	h.t.Helper()
	r := h.run("login", "--token", token)
	require.Equal(h.t, ExitOK, r.code, r.stderr)
}

func decodeFlights(t *testing.T, out string) []models.FlightRecord {
	t.Helper()
	var flights []models.FlightRecord
	require.NoError(t, json.Unmarshal([]byte(out), &flights), out)
	return flights
}

func flightNos(flights []models.FlightRecord) []string {
	out := make([]string, len(flights))
	for i, f := range flights {
		out[i] = f.FlightNo
	}
	return out
}

func TestUsage(t *testing.T) {
	h := newHarness(t, "http://unused")

	r := h.run()
	assert.Equal(t, ExitOK, r.code)
	assert.Contains(t, r.stdout, "usage: flightdesk")

	r = h.run("teleport")
	assert.Equal(t, ExitUsage, r.code)
	assert.Contains(t, r.stderr, "unknown command")

	r = h.run("flights", "list", "--sort", "duration")
	assert.Equal(t, ExitUsage, r.code)

	r = h.run("flights", "list", "--category", "economy")
	assert.Equal(t, ExitUsage, r.code)
	assert.Contains(t, r.stderr, "--category must be one of Economy, Business, First")

	r = h.run("login")
	assert.Equal(t, ExitUsage, r.code)
	assert.Contains(t, r.stderr, "--token is required")
}

func TestSessionLifecycle(t *testing.T) {
	b := startBackend(t)
	h := newHarness(t, b.url)

	r := h.run("status")
	assert.Equal(t, ExitAuth, r.code)
	assert.Contains(t, r.stdout, "authenticated:  no")

	h.login(b.userToken)
	r = h.run("--json", "status")
	require.Equal(t, ExitOK, r.code, r.stderr)
	var view session.View
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &view))
	assert.True(t, view.Authenticated)
	assert.Equal(t, "alice", view.Identity.Username)
	assert.Equal(t, b.url, view.BackendBaseURL)
	assert.NotNil(t, view.ExpiresAt)

	r = h.run("logout")
	require.Equal(t, ExitOK, r.code)
	assert.Equal(t, ExitAuth, h.run("status").code)
}

func TestRejectedTokenIsNotAuthenticated(t *testing.T) {
	b := startBackend(t)
	h := newHarness(t, b.url)
	h.login("not-a-real-token")

	r := h.run("flights", "list")
	assert.Equal(t, ExitAuth, r.code)
	assert.Contains(t, r.stderr, "Please log in to continue")
}

func TestFlightsListRequiresAdmin(t *testing.T) {
	b := startBackend(t)
	h := newHarness(t, b.url)
	h.login(b.userToken)

	r := h.run("flights", "list")
	assert.Equal(t, ExitAuth, r.code)
	assert.Contains(t, r.stderr, "Access denied")
}

func TestFlightsListFilterAndSort(t *testing.T) {
	b := startBackend(t)
	h := newHarness(t, b.url)
	h.login(b.adminToken)

	r := h.run("--json", "flights", "list", "--sort", "price")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Equal(t, []string{"SG-101", "AI-202", "6E-303", "UK-808"}, flightNos(decodeFlights(t, r.stdout)))

	r = h.run("--json", "flights", "list", "--airline", "air")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Equal(t, []string{"AI-202"}, flightNos(decodeFlights(t, r.stdout)))

	r = h.run("--json", "flights", "list", "--date", "2024-05-01", "--sort", "airline")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Equal(t, []string{"AI-202", "6E-303"}, flightNos(decodeFlights(t, r.stdout)))

	r = h.run("flights", "list", "--category", "First")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "UK-808")
	assert.NotContains(t, r.stdout, "AI-202")
}

func TestFlightsAddEditDelete(t *testing.T) {
	ctx := context.Background()
	b := startBackend(t)
	h := newHarness(t, b.url)
	h.login(b.adminToken)

	r := h.run("flights", "add",
		"--flight-no", "QP-111", "--airline", "Akasa Air", "--from", "Pune", "--to", "Delhi",
		"--category", "Economy", "--seats", "150", "--price", "5100",
		"--date", "2024-06-10", "--departure", "07:00", "--arrival", "09:05")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stderr, "Successfully Added Flight")

	all, err := b.repo.GetAllFlights(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	added := all[4]

	r = h.run("flights", "add", "--flight-no", "X", "--seats", "-1")
	assert.Equal(t, ExitUsage, r.code)

	r = h.run("flights", "edit", "--id", added.ID, "--price", "4800.5")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stderr, "Flight updated successfully")
	stored, err := b.repo.GetFlightByID(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, 4800.5, stored.TotalPrice)
	assert.Equal(t, "Akasa Air", stored.Airline)

	r = h.run("flights", "edit", "--id", "missing", "--price", "1")
	assert.Equal(t, ExitBackend, r.code)

	r = h.runWithInput("n\n", "flights", "delete", "--id", added.ID)
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stderr, "cancelled")
	_, err = b.repo.GetFlightByID(ctx, added.ID)
	require.NoError(t, err)

	r = h.runWithInput("y\n", "--json", "flights", "delete", "--id", added.ID)
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Len(t, decodeFlights(t, r.stdout), 4)
	_, err = b.repo.GetFlightByID(ctx, added.ID)
	assert.ErrorIs(t, err, stubapi.ErrNotFound)

	r = h.run("flights", "delete", "--id", added.ID, "--yes")
	assert.Equal(t, ExitBackend, r.code)
	assert.Contains(t, r.stderr, "Flight not found")
}

func TestSearch(t *testing.T) {
	b := startBackend(t)
	h := newHarness(t, b.url)

	r := h.run("--json", "search", "--from", "Delhi", "--to", "Mumbai", "--date", "2024-05-01", "--category", "Economy")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Equal(t, []string{"AI-202"}, flightNos(decodeFlights(t, r.stdout)))

	r = h.run("search", "--from", "Delhi")
	assert.Equal(t, ExitUsage, r.code)
	assert.Contains(t, r.stderr, "To is required")

	r = h.run("search", "--from", "Delhi", "--to", "Mumbai", "--date", "2024-05-01", "--category", "First")
	assert.Equal(t, ExitBackend, r.code)
	assert.Contains(t, r.stderr, "No flights found")

	r = h.run("--json", "search-all")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Len(t, decodeFlights(t, r.stdout), 4)
}

func TestBackendUnreachable(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")
	r := h.run("search-all")
	assert.Equal(t, ExitBackend, r.code)
	assert.Contains(t, r.stderr, "Network error, please try again later")
}

func TestFeedback(t *testing.T) {
	b := startBackend(t)
	h := newHarness(t, b.url)
	args := []string{"feedback", "--name", "Alice", "--email", "alice@example.com",
		"--mobile", "9876543210", "--subject", "Baggage", "--message", "Lost my bag"}

	r := h.run(args...)
	assert.Equal(t, ExitAuth, r.code)
	assert.Contains(t, r.stderr, "Please log in to send a message")

	h.login(b.userToken)
	r = h.run(args...)
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stderr, "Message sent successfully")

	stored, err := b.repo.Feedback(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "alice", stored[0].Username)
}

func TestProfile(t *testing.T) {
	b := startBackend(t)
	h := newHarness(t, b.url)
	h.login(b.userToken)

	r := h.run("profile")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Alice Sharma")

	r = h.run("--json", "profile", "--mobile", "9123456789")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stderr, "Profile updated successfully!")
	var user models.UserProfile
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &user))
	assert.Equal(t, "9123456789", user.Mobile)
	assert.Equal(t, "Alice", user.FirstName)

	r = h.run("profile", "--mobile", "12")
	assert.Equal(t, ExitUsage, r.code)
	assert.Contains(t, r.stderr, "Mobile number must be 10 digits")
}
