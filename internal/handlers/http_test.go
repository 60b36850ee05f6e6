package handlers_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/abrezinsky/tourneytracker/internal/errors"
	"github.com/abrezinsky/tourneytracker/internal/handlers"
	"github.com/abrezinsky/tourneytracker/internal/services"
)

func TestAPIError_Error(t *testing.T) {
	err := handlers.NewAPIError(http.StatusBadRequest, "BAD_REQUEST", "test message")

	if err.Error() != "test message" {
		t.Errorf("expected 'test message', got %q", err.Error())
	}
	if err.Code != "BAD_REQUEST" {
		t.Errorf("expected code 'BAD_REQUEST', got %q", err.Code)
	}
}

func TestUnprocessable(t *testing.T) {
	err := handlers.Unprocessable("name is required")

	if err.Status != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", err.Status)
	}
	if err.Code != handlers.ErrCodeValidation {
		t.Errorf("expected code %q, got %q", handlers.ErrCodeValidation, err.Code)
	}
}

func TestInternalError(t *testing.T) {
	err := handlers.InternalError(fmt.Errorf("db connection failed"))

	if err.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", err.Status)
	}
	// Internal errors should not expose the original message
	if err.Message != "Internal server error" {
		t.Errorf("expected generic message, got %q", err.Message)
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            *handlers.APIError
		expectedStatus int
	}{
		{"ErrBadRequest", handlers.ErrBadRequest, http.StatusBadRequest},
		{"ErrNotFound", handlers.ErrNotFound, http.StatusNotFound},
		{"ErrRateLimited", handlers.ErrRateLimited, http.StatusTooManyRequests},
		{"ErrInternalServer", handlers.ErrInternalServer, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, tt.err.Status)
			}
		})
	}
}

// ==================== Direct ToAPIError Tests ====================

func TestToAPIError_DirectTests(t *testing.T) {
	tests := []struct {
		name           string
		inputErr       error
		expectedStatus int
		expectedCode   string
		expectedMsg    string
	}{
		{"not found", errors.NotFound("session not found"), http.StatusNotFound, handlers.ErrCodeNotFound, "session not found"},
		{"validation", errors.Validation("rank 2 is missing"), http.StatusUnprocessableEntity, handlers.ErrCodeValidation, "rank 2 is missing"},
		{"invalid input", errors.InvalidInput("bad url"), http.StatusUnprocessableEntity, handlers.ErrCodeValidation, "bad url"},
		{"conflict", services.ErrSessionCompleted, http.StatusConflict, handlers.ErrCodeConflict, ""},
		{"invariant", errors.Invariant("penalty references team q"), http.StatusInternalServerError, handlers.ErrCodeInvariantViolation, "penalty references team q"},
		{"wrapped internal", errors.Wrap(stderrors.New("disk"), errors.ErrInternal, "storage error"), http.StatusInternalServerError, handlers.ErrCodeInternalServer, "Internal server error"},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError, handlers.ErrCodeInternalServer, "Internal server error"},
		{"wrapped validation", fmt.Errorf("outer: %w", errors.Validation("inner")), http.StatusUnprocessableEntity, handlers.ErrCodeValidation, "inner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := handlers.ToAPIError(tt.inputErr)
			if apiErr.Status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, apiErr.Status)
			}
			if apiErr.Code != tt.expectedCode {
				t.Errorf("expected code %q, got %q", tt.expectedCode, apiErr.Code)
			}
			if tt.expectedMsg != "" && !strings.Contains(apiErr.Message, tt.expectedMsg) {
				t.Errorf("expected message to contain %q, got %q", tt.expectedMsg, apiErr.Message)
			}
		})
	}
}

func TestDecodeJSON_EmptyBody(t *testing.T) {
	setup := newTestSetup(t)

	rec := setup.do(t, http.MethodPost, "/api/teams", "")

	expectStatus(t, rec, http.StatusBadRequest)
	if !strings.Contains(strings.ToLower(rec.Body.String()), "empty") {
		t.Errorf("expected error to mention 'empty', got %q", rec.Body.String())
	}
}

func TestDecodeJSON_InvalidJSON(t *testing.T) {
	setup := newTestSetup(t)

	rec := setup.do(t, http.MethodPost, "/api/teams", "{invalid}")

	expectStatus(t, rec, http.StatusBadRequest)
	if !strings.Contains(rec.Body.String(), "JSON") {
		t.Errorf("expected error to mention 'JSON', got %q", rec.Body.String())
	}
}

func TestToAPIError_StorageFailure(t *testing.T) {
	setup := newTestSetup(t)

	// Close the database to trigger an unexpected error
	setup.db.DB().Close()

	rec := setup.do(t, http.MethodGet, "/api/sessions", nil)

	expectStatus(t, rec, http.StatusInternalServerError)
	if code := errorCode(t, rec); code != handlers.ErrCodeInternalServer {
		t.Errorf("expected code %q, got %q", handlers.ErrCodeInternalServer, code)
	}
}
