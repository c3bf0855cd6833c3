package createEvent

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusevents/internal/http-server/handlers/event/createEvent/mocks"
	"campusevents/internal/http-server/middleware/identity"
	"campusevents/internal/lib/logger/handlers/slogdiscard"
	"campusevents/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateEventHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	validBody := `{
		"title": "Freshers Night",
		"description": "Welcome party for the new intake",
		"location": "Main Auditorium",
		"date": "2026-10-03T00:00:00Z",
		"time": "18:00",
		"category": "Social",
		"is_paid": false,
		"tickets_available": 150
	}`

	testCases := []struct {
		name           string
		requestBody    string
		withIdentity   bool
		mockSetup      func(m *mocks.EventCreator)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:         "Success",
			requestBody:  validBody,
			withIdentity: true,
			mockSetup: func(m *mocks.EventCreator) {
				m.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e *models.Event) bool {
					return e.Title == "Freshers Night" &&
						e.CreatedBy == "organizer-1" &&
						e.Category == models.CategorySocial &&
						e.TicketsAvailable != nil && *e.TicketsAvailable == 150
				})).Return("ev-1", nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"status":"OK","event_id":"ev-1"}`,
		},
		{
			name:           "No identity",
			requestBody:    validBody,
			withIdentity:   false,
			mockSetup:      func(m *mocks.EventCreator) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"authentication required"}`,
		},
		{
			name:           "Invalid JSON",
			requestBody:    `invalid json`,
			withIdentity:   true,
			mockSetup:      func(m *mocks.EventCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name:           "Missing title",
			requestBody:    `{"description": "Welcome party for the new intake", "location": "Main Auditorium", "date": "2026-10-03T00:00:00Z", "time": "18:00", "category": "Social"}`,
			withIdentity:   true,
			mockSetup:      func(m *mocks.EventCreator) {},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"status":"Error"`)
				assert.Contains(t, body, "Title")
			},
		},
		{
			name:           "Unknown category",
			requestBody:    `{"title": "Freshers Night", "description": "Welcome party for the new intake", "location": "Main Auditorium", "date": "2026-10-03T00:00:00Z", "time": "18:00", "category": "Gaming"}`,
			withIdentity:   true,
			mockSetup:      func(m *mocks.EventCreator) {},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"status":"Error"`)
				assert.Contains(t, body, "Category")
			},
		},
		{
			name:           "Paid event without price",
			requestBody:    `{"title": "Tech Conference", "description": "A full day of talks and workshops", "location": "Engineering Hall", "date": "2026-11-10T00:00:00Z", "time": "09:00", "category": "Academic", "is_paid": true}`,
			withIdentity:   true,
			mockSetup:      func(m *mocks.EventCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"paid events require a price greater than zero"}`,
		},
		{
			name:           "Negative capacity",
			requestBody:    `{"title": "Freshers Night", "description": "Welcome party for the new intake", "location": "Main Auditorium", "date": "2026-10-03T00:00:00Z", "time": "18:00", "category": "Social", "tickets_available": -1}`,
			withIdentity:   true,
			mockSetup:      func(m *mocks.EventCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"tickets_available cannot be negative"}`,
		},
		{
			name:         "Storage failure",
			requestBody:  validBody,
			withIdentity: true,
			mockSetup: func(m *mocks.EventCreator) {
				m.On("CreateEvent", mock.Anything, mock.Anything).Return("", assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to add event"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockCreator := mocks.NewEventCreator(t)
			tc.mockSetup(mockCreator)

			router := chi.NewRouter()
			router.Use(identity.Require)
			router.Post("/events", New(logger, mockCreator))

			req, err := http.NewRequest("POST", "/events", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)
			if tc.withIdentity {
				req.Header.Set(identity.HeaderUserID, "organizer-1")
				req.Header.Set(identity.HeaderUserEmail, "organizer@campus.edu")
			}

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}
