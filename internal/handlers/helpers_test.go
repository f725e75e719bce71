package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/giropositivo/giro_backend/internal/core/domain"
	"github.com/giropositivo/giro_backend/internal/dto"
	"github.com/giropositivo/giro_backend/internal/middleware"
)

const (
	testSecret  = "handler-test-secret"
	testIssuer  = "giro-test"
	testOwnerID = "owner-1"
)

func bearer(t *testing.T) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   testOwnerID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

// newTestRouter mounts register under an authenticated /api/v1 group.
func newTestRouter(register func(rg *gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(testSecret, testIssuer))
	register(v1)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", bearer(t))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type mockJourneyService struct {
	mock.Mock
}

func (m *mockJourneyService) GetJourneyByID(ctx context.Context, ownerID, journeyID string) (*domain.Journey, error) {
	args := m.Called(ctx, ownerID, journeyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journey), args.Error(1)
}

func (m *mockJourneyService) ListJourneys(ctx context.Context, ownerID string, params dto.ListJourneysParams) (*dto.ListJourneysResponse, error) {
	args := m.Called(ctx, ownerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJourneysResponse), args.Error(1)
}

func (m *mockJourneyService) StartJourney(ctx context.Context, ownerID string, req dto.StartJourneyRequest) (*domain.Journey, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journey), args.Error(1)
}

func (m *mockJourneyService) CloseJourney(ctx context.Context, ownerID, journeyID string, req dto.CloseJourneyRequest) (*domain.JourneyReconciliation, error) {
	args := m.Called(ctx, ownerID, journeyID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JourneyReconciliation), args.Error(1)
}

func (m *mockJourneyService) UpdateJourney(ctx context.Context, ownerID, journeyID string, req dto.UpdateJourneyRequest) (*domain.JourneyReconciliation, error) {
	args := m.Called(ctx, ownerID, journeyID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JourneyReconciliation), args.Error(1)
}

func (m *mockJourneyService) DeleteJourney(ctx context.Context, ownerID, journeyID string) error {
	return m.Called(ctx, ownerID, journeyID).Error(0)
}

func (m *mockJourneyService) ReconcileJourney(ctx context.Context, ownerID, journeyID string) (*domain.JourneyReconciliation, error) {
	args := m.Called(ctx, ownerID, journeyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JourneyReconciliation), args.Error(1)
}

type mockReportingService struct {
	mock.Mock
}

func (m *mockReportingService) DailyStats(ctx context.Context, ownerID, day, contractID string) (*domain.DailyStats, error) {
	args := m.Called(ctx, ownerID, day, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyStats), args.Error(1)
}

func (m *mockReportingService) PeriodReport(ctx context.Context, ownerID string, query domain.PeriodReportQuery) (*domain.PeriodReport, error) {
	args := m.Called(ctx, ownerID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodReport), args.Error(1)
}

func newRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
