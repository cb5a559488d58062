package portal

import (
	"context"
	"testing"
	"time"

	"github.com/cx-tal-miterani/flightdesk/internal/loading"
	"github.com/cx-tal-miterani/flightdesk/internal/models"
	"github.com/cx-tal-miterani/flightdesk/internal/notify"
	"github.com/cx-tal-miterani/flightdesk/internal/service"
	"github.com/cx-tal-miterani/flightdesk/internal/service/mocks"
	"github.com/cx-tal-miterani/flightdesk/internal/session"
	"github.com/cx-tal-miterani/flightdesk/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	authenticated bool
	identity      models.Identity
}

func (s fakeSession) Require() error {
	if !s.authenticated {
		return session.ErrNotAuthenticated
	}
	return nil
}

func (s fakeSession) View() session.View {
	return session.View{Authenticated: s.authenticated, Identity: s.identity}
}

func setup(authenticated bool) (*Portal, *mocks.MockBackendService, *notify.Recorder) {
	backend := new(mocks.MockBackendService)
	notes := &notify.Recorder{}
	sess := fakeSession{authenticated: authenticated, identity: models.Identity{Username: "alice"}}
	return New(backend, sess, notes, nil, nil), backend, notes
}

func validFeedback() models.Feedback {
	return models.Feedback{
		Name:    "Alice",
		Email:   "alice@example.com",
		Mobile:  "9876543210",
		Subject: "Refund",
		Message: "Please refund my ticket",
	}
}

func TestSearch(t *testing.T) {
	req := models.SearchRequest{From: "DEL", To: "BOM", Date: "2024-05-01", Category: "Economy"}
	flights := []models.FlightRecord{{ID: "1", FlightNo: "AI-202"}}

	tests := []struct {
		name       string
		req        models.SearchRequest
		setupMock  func(*mocks.MockBackendService)
		wantLen    int
		wantErr    bool
		wantErrMsg string
	}{
		{
			name: "found",
			req:  req,
			setupMock: func(m *mocks.MockBackendService) {
				m.On("SearchFlights", mock.Anything, req).Return(flights, nil)
			},
			wantLen: 1,
		},
		{
			name:       "missing field",
			req:        models.SearchRequest{From: "DEL", Date: "2024-05-01", Category: "Economy"},
			setupMock:  func(m *mocks.MockBackendService) {},
			wantErr:    true,
			wantErrMsg: "To is required",
		},
		{
			name: "backend without message",
			req:  req,
			setupMock: func(m *mocks.MockBackendService) {
				m.On("SearchFlights", mock.Anything, req).Return(nil, &service.APIError{Status: 500})
			},
			wantErr:    true,
			wantErrMsg: MsgSearchFailed,
		},
		{
			name: "network",
			req:  req,
			setupMock: func(m *mocks.MockBackendService) {
				m.On("SearchFlights", mock.Anything, req).Return(nil, service.ErrUnavailable)
			},
			wantErr:    true,
			wantErrMsg: service.NetworkErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, backend, notes := setup(false)
			tt.setupMock(backend)

			got, err := p.Search(context.Background(), tt.req)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, []string{tt.wantErrMsg}, notes.Errors())
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
			assert.Empty(t, notes.Entries())
		})
	}
}

func TestSearchAll(t *testing.T) {
	p, backend, notes := setup(false)
	backend.On("SearchAllFlights", mock.Anything).
		Return([]models.FlightRecord{{ID: "1"}, {ID: "2"}}, nil)

	got, err := p.SearchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Empty(t, notes.Entries())
}

func TestSendFeedbackValidatesBeforeAuth(t *testing.T) {
	p, backend, notes := setup(false)
	fb := validFeedback()
	fb.Mobile = "12345"

	err := p.SendFeedback(context.Background(), fb)
	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Mobile number must be 10 digits"}, notes.Errors())
	backend.AssertNotCalled(t, "AddFeedback", mock.Anything, mock.Anything)
}

func TestSendFeedbackRequiresLogin(t *testing.T) {
	p, backend, notes := setup(false)

	err := p.SendFeedback(context.Background(), validFeedback())
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
	assert.Equal(t, []string{MsgFeedbackLogin}, notes.Errors())
	backend.AssertNotCalled(t, "AddFeedback", mock.Anything, mock.Anything)
}

func TestSendFeedback(t *testing.T) {
	p, backend, notes := setup(true)
	backend.On("AddFeedback", mock.Anything, mock.MatchedBy(func(fb models.Feedback) bool {
		return fb.Username == "alice" && fb.Subject == "Refund"
	})).Return("saved", nil)

	require.NoError(t, p.SendFeedback(context.Background(), validFeedback()))
	assert.Equal(t, []string{MsgFeedbackSent}, notes.Successes())
	backend.AssertExpectations(t)
}

func TestSendFeedbackBackendError(t *testing.T) {
	p, backend, notes := setup(true)
	backend.On("AddFeedback", mock.Anything, mock.Anything).Return("", &service.APIError{Status: 400})

	assert.Error(t, p.SendFeedback(context.Background(), validFeedback()))
	assert.Equal(t, []string{MsgFeedbackFailed}, notes.Errors())
}

func TestProfile(t *testing.T) {
	p, backend, notes := setup(true)
	user := &models.UserProfile{Username: "alice", FirstName: "Alice"}
	backend.On("GetUserDetails", mock.Anything).Return(user, nil).Once()

	got, err := p.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, user, got)

	backend.On("GetUserDetails", mock.Anything).Return(nil, &service.APIError{Status: 404, Message: "User not found"}).Once()
	_, err = p.Profile(context.Background())
	assert.Error(t, err)
	assert.Equal(t, []string{"User not found"}, notes.Errors())
}

func TestProfileRequiresLogin(t *testing.T) {
	p, backend, notes := setup(false)
	_, err := p.Profile(context.Background())
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
	assert.Equal(t, []string{MsgLoginRequired}, notes.Errors())
	backend.AssertNotCalled(t, "GetUserDetails", mock.Anything)
}

func TestUpdateProfile(t *testing.T) {
	upd := models.ProfileUpdate{FirstName: "Alice", LastName: "Smith", Mobile: "9876543210", Address: "1 Main St"}

	t.Run("saved", func(t *testing.T) {
		p, backend, notes := setup(true)
		backend.On("UpdateUserDetails", mock.Anything, upd).
			Return(&models.UserProfile{FirstName: "Alice", LastName: "Smith"}, nil)

		got, err := p.UpdateProfile(context.Background(), upd)
		require.NoError(t, err)
		assert.Equal(t, "Smith", got.LastName)
		assert.Equal(t, []string{MsgProfileUpdated}, notes.Successes())
	})

	t.Run("invalid", func(t *testing.T) {
		p, backend, notes := setup(true)
		bad := upd
		bad.FirstName = ""

		_, err := p.UpdateProfile(context.Background(), bad)
		require.Error(t, err)
		assert.Equal(t, []string{"First Name is required"}, notes.Errors())
		backend.AssertNotCalled(t, "UpdateUserDetails", mock.Anything, mock.Anything)
	})

	t.Run("rejected", func(t *testing.T) {
		p, backend, notes := setup(true)
		backend.On("UpdateUserDetails", mock.Anything, upd).Return(nil, &service.APIError{Status: 500})

		_, err := p.UpdateProfile(context.Background(), upd)
		require.Error(t, err)
		assert.Equal(t, []string{MsgProfileUpdateFailed}, notes.Errors())
	})
}

func TestLoadingStaysVisibleForMinimum(t *testing.T) {
	backend := new(mocks.MockBackendService)
	backend.On("SearchAllFlights", mock.Anything).Return([]models.FlightRecord{}, nil)

	var changes []bool
	ind := loading.New(200*time.Millisecond, loading.WithObserver(func(v bool) {
		changes = append(changes, v)
	}))
	p := New(backend, fakeSession{}, &notify.Recorder{}, ind, nil)

	start := time.Now()
	_, err := p.SearchAll(context.Background())
	require.NoError(t, err)
	assert.True(t, ind.Visible())

	ind.Wait()
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
	assert.False(t, ind.Visible())
	assert.Equal(t, []bool{true, false}, changes)
}
