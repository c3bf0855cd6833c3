package joinWaitlist

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"campusevents/internal/http-server/handlers/event/joinWaitlist/mocks"
	"campusevents/internal/http-server/middleware/identity"
	"campusevents/internal/lib/logger/handlers/slogdiscard"
	"campusevents/internal/models"
	"campusevents/internal/ticketing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestJoinWaitlistHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	caller := models.Identity{UserID: "user123", Email: "user123@campus.edu"}

	testCases := []struct {
		name           string
		withIdentity   bool
		mockSetup      func(m *mocks.WaitlistJoiner)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:         "Success",
			withIdentity: true,
			mockSetup: func(m *mocks.WaitlistJoiner) {
				m.On("Join", mock.Anything, caller, "ev-1").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name:           "No identity",
			withIdentity:   false,
			mockSetup:      func(m *mocks.WaitlistJoiner) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"authentication required"}`,
		},
		{
			name:         "Event not found",
			withIdentity: true,
			mockSetup: func(m *mocks.WaitlistJoiner) {
				m.On("Join", mock.Anything, caller, "ev-1").Return(ticketing.ErrEventNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event not found"}`,
		},
		{
			name:         "Event cancelled",
			withIdentity: true,
			mockSetup: func(m *mocks.WaitlistJoiner) {
				m.On("Join", mock.Anything, caller, "ev-1").Return(ticketing.ErrEventCancelled)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"event is cancelled"}`,
		},
		{
			name:         "Already on waitlist",
			withIdentity: true,
			mockSetup: func(m *mocks.WaitlistJoiner) {
				m.On("Join", mock.Anything, caller, "ev-1").Return(ticketing.ErrAlreadyOnWaitlist)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"already on waitlist"}`,
		},
		{
			name:         "Internal error",
			withIdentity: true,
			mockSetup: func(m *mocks.WaitlistJoiner) {
				m.On("Join", mock.Anything, caller, "ev-1").Return(assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to join waitlist"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockWaitlist := mocks.NewWaitlistJoiner(t)
			tc.mockSetup(mockWaitlist)

			router := chi.NewRouter()
			router.Use(identity.Require)
			router.Post("/events/{id}/waitlist", New(logger, mockWaitlist))

			req, err := http.NewRequest("POST", "/events/ev-1/waitlist", nil)
			require.NoError(t, err)
			if tc.withIdentity {
				req.Header.Set(identity.HeaderUserID, caller.UserID)
				req.Header.Set(identity.HeaderUserEmail, caller.Email)
			}

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
		})
	}
}
