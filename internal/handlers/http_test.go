package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/warwickbarbell/blackboards/internal/errors"
	"github.com/warwickbarbell/blackboards/internal/handlers"
	"github.com/warwickbarbell/blackboards/internal/services"
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

func TestToAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"service error keeps its code", services.ErrDuplicateRanking, http.StatusBadRequest, "DUPLICATE_RANKING"},
		{"wrapped service error", fmt.Errorf("submit: %w", services.ErrVotingClosed), http.StatusBadRequest, "VOTING_CLOSED"},
		{"not found", errors.NotFoundf("position %d not found", 9), http.StatusNotFound, handlers.ErrCodeNotFound},
		{"validation", errors.Validation("bad"), http.StatusBadRequest, handlers.ErrCodeValidation},
		{"invalid input", errors.InvalidInputf("bad %s", "id"), http.StatusBadRequest, handlers.ErrCodeValidation},
		{"conflict", errors.Conflict("exists"), http.StatusConflict, handlers.ErrCodeConflict},
		{"unauthorized", errors.Unauthorized("who"), http.StatusUnauthorized, handlers.ErrCodeUnauthorized},
		{"forbidden", errors.Forbiddenf("not %s", "allowed"), http.StatusForbidden, handlers.ErrCodeForbidden},
		{"internal kind", errors.Internal(fmt.Errorf("boom")), http.StatusInternalServerError, handlers.ErrCodeInternalServer},
		{"plain error", fmt.Errorf("database is locked"), http.StatusInternalServerError, handlers.ErrCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := handlers.ToAPIError(tt.err)
			if apiErr.Status != tt.wantStatus || apiErr.Code != tt.wantCode {
				t.Errorf("expected %d %s, got %d %s", tt.wantStatus, tt.wantCode, apiErr.Status, apiErr.Code)
			}
		})
	}
}

func TestToAPIError_HidesInternalDetail(t *testing.T) {
	apiErr := handlers.ToAPIError(fmt.Errorf("sql: connection refused to 10.0.0.5"))
	if strings.Contains(apiErr.Message, "10.0.0.5") {
		t.Errorf("expected internal detail to be hidden, got %q", apiErr.Message)
	}
}

func TestDecodeJSON_EmptyBody(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodPost, "/api/elections/1/ballot", "", s.session(memberID))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty body, got %d", rr.Code)
	}
	if !strings.Contains(strings.ToLower(rr.Body.String()), "empty") {
		t.Errorf("expected error to mention 'empty', got %q", rr.Body.String())
	}
}

func TestStorageFailure_Returns500(t *testing.T) {
	s := newTestServer(t)
	s.repo.DB().Close()

	rr := s.do(http.MethodGet, "/api/elections/positions", "", nil)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}
	if apiErr := decodeError(t, rr); apiErr.Code != handlers.ErrCodeInternalServer {
		t.Errorf("unexpected code %s", apiErr.Code)
	}
}
