package create

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/subtrackhq/subtrack/internal/http/middlewarectx"
	"github.com/subtrackhq/subtrack/internal/http/response"
	"github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/internal/services/tracker"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) CreateSubscription(ctx context.Context, userID string, req models.DummySubscription) (*models.Subscription, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newRequest(body string, userID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, userID))
	}
	return req
}

func TestCreateHandler(t *testing.T) {
	validBody := `{"service_name":"Netflix","price":15.99,"billing_cycle":"monthly","category":"entertainment"}`

	tests := []struct {
		name       string
		body       string
		userID     string
		setupMocks func(s *ServiceMock)
		wantCode   int
		wantStatus string
	}{
		{
			name:   "success",
			body:   validBody,
			userID: "u1",
			setupMocks: func(s *ServiceMock) {
				s.On("CreateSubscription", mock.Anything, "u1",
					mock.MatchedBy(func(req models.DummySubscription) bool {
						return req.ServiceName == "Netflix" && req.Price == 15.99
					})).Return(&models.Subscription{
					ID:          "s1",
					UserID:      "u1",
					ServiceName: "Netflix",
				}, nil).Once()
			},
			wantCode:   http.StatusCreated,
			wantStatus: response.StatusOK,
		},
		{
			name:   "success with billing date",
			body:   `{"service_name":"Netflix","price":15.99,"billing_cycle":"monthly","next_billing_date":"2026-09-15"}`,
			userID: "u1",
			setupMocks: func(s *ServiceMock) {
				s.On("CreateSubscription", mock.Anything, "u1",
					mock.MatchedBy(func(req models.DummySubscription) bool {
						return req.NextBillingDate != nil && *req.NextBillingDate == "2026-09-15"
					})).Return(&models.Subscription{
					ID:          "s1",
					UserID:      "u1",
					ServiceName: "Netflix",
				}, nil).Once()
			},
			wantCode:   http.StatusCreated,
			wantStatus: response.StatusOK,
		},
		{
			name:       "invalid json",
			body:       `{not json`,
			userID:     "u1",
			setupMocks: func(_ *ServiceMock) {},
			wantCode:   http.StatusBadRequest,
			wantStatus: response.StatusError,
		},
		{
			name:       "missing required fields",
			body:       `{"service_name":"Netflix"}`,
			userID:     "u1",
			setupMocks: func(_ *ServiceMock) {},
			wantCode:   http.StatusBadRequest,
			wantStatus: response.StatusError,
		},
		{
			name:       "no user in context",
			body:       validBody,
			userID:     "",
			setupMocks: func(_ *ServiceMock) {},
			wantCode:   http.StatusUnauthorized,
			wantStatus: response.StatusError,
		},
		{
			name:   "service rejects data",
			body:   `{"service_name":"X","price":5,"billing_cycle":"lifetime"}`,
			userID: "u1",
			setupMocks: func(s *ServiceMock) {
				s.On("CreateSubscription", mock.Anything, "u1", mock.Anything).
					Return(nil, fmt.Errorf("tracker.CreateSubscription: %w", tracker.ErrValidation)).Once()
			},
			wantCode:   http.StatusBadRequest,
			wantStatus: response.StatusError,
		},
		{
			name:   "service fails",
			body:   validBody,
			userID: "u1",
			setupMocks: func(s *ServiceMock) {
				s.On("CreateSubscription", mock.Anything, "u1", mock.Anything).
					Return(nil, errors.New("backend down")).Once()
			},
			wantCode:   http.StatusInternalServerError,
			wantStatus: response.StatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &ServiceMock{}
			tt.setupMocks(service)
			handler := New(newNoopLogger(), service)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest(tt.body, tt.userID))

			assert.Equal(t, tt.wantCode, rec.Code)

			var resp struct {
				Status string `json:"status"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			service.AssertExpectations(t)
		})
	}
}
