package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"eventhub/internal/auth"
	"eventhub/internal/service"
	"eventhub/internal/testutil"
)

func newTestRouter(t *testing.T) (*gin.Engine, *auth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	authSvc := service.NewAuthService(testutil.NewUserRepo(), auth.NewPasswordHasher(), tokens)
	eventSvc := service.NewEventService(testutil.NewEventRepo())

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	router := gin.New()
	NewHandler(authSvc, eventSvc, tokens, logger).RegisterRoutes(router)
	return router, tokens
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "uptime")
}

func TestRegisterAndLoginFlow(t *testing.T) {
	router, tokens := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/register", gin.H{
		"username":         "ana",
		"email":            "ana@example.com",
		"password":         "s3cret-pw",
		"confirm_password": "s3cret-pw",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/login", gin.H{
		"username": "ana",
		"password": "s3cret-pw",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	_, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
}

func TestRegisterValidationStatuses(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/register", gin.H{
		"username":         "ben",
		"email":            "ben@example.com",
		"password":         "one-password",
		"confirm_password": "another-password",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/login", gin.H{
		"password": "whatever",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventCRUD(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/event", gin.H{
		"name":        "Launch",
		"description": "kickoff",
		"date":        "2025-01-10",
		"time":        "09:00",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Event EventResponse `json:"event"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Event.ID)
	require.Empty(t, created.Event.Participants)

	rec = doJSON(t, router, http.MethodGet, "/api/event", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Launch")

	rec = doJSON(t, router, http.MethodGet, "/api/event/"+created.Event.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/event/"+created.Event.ID, gin.H{
		"name":        "Launch v2",
		"description": "rescheduled",
		"date":        "2025-02-01",
		"time":        "10:30",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Launch v2")

	rec = doJSON(t, router, http.MethodDelete, "/api/event/"+created.Event.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/event/"+created.Event.ID, nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventNotFoundStatuses(t *testing.T) {
	router, _ := newTestRouter(t)
	missing := "64b0c0ffee0ddba11ca7e100"

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/event/" + missing},
		{http.MethodDelete, "/api/event/" + missing},
	} {
		rec := doJSON(t, router, tc.method, tc.path, nil, nil)
		require.Equalf(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
	}

	rec := doJSON(t, router, http.MethodPut, "/api/event/"+missing, gin.H{
		"name":        "x",
		"description": "y",
	}, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterParticipantAuthGate(t *testing.T) {
	router, tokens := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/event", gin.H{
		"name":        "Meetup",
		"description": "monthly",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Event EventResponse `json:"event"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	path := fmt.Sprintf("/api/event/%s/register", created.Event.ID)

	// No token.
	rec = doJSON(t, router, http.MethodPost, path, gin.H{"userId": "u1"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Malformed header.
	rec = doJSON(t, router, http.MethodPost, path, gin.H{"userId": "u1"}, map[string]string{
		"Authorization": "Token abc",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Tampered token.
	tok, err := tokens.Issue("u1")
	require.NoError(t, err)
	rec = doJSON(t, router, http.MethodPost, path, gin.H{"userId": "u1"}, map[string]string{
		"Authorization": "Bearer " + tok + "x",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token.
	bearer := map[string]string{"Authorization": "Bearer " + tok}
	rec = doJSON(t, router, http.MethodPost, path, gin.H{"userId": "u1"}, bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), `"u1"`))

	// Duplicate registration.
	rec = doJSON(t, router, http.MethodPost, path, gin.H{"userId": "u1"}, bearer)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing userId.
	rec = doJSON(t, router, http.MethodPost, path, gin.H{}, bearer)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown event.
	rec = doJSON(t, router, http.MethodPost, "/api/event/64b0c0ffee0ddba11ca7e100/register", gin.H{"userId": "u2"}, bearer)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
