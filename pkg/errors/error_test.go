package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewUsesDefaultMessage(t *testing.T) {
	err := New(SubmissionNotFound)
	if err.Error() != "Submission not found" {
		t.Fatalf("expected default message, got %q", err.Error())
	}
	if err.Code != SubmissionNotFound {
		t.Fatalf("expected code preserved, got %d", err.Code)
	}
}

func TestNewfOverridesMessage(t *testing.T) {
	err := Newf(SubmissionNotFound, "submission %s not found", "abc")
	if err.Error() != "submission abc not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, TransportFailed)
	if !stderrors.Is(err, cause) {
		t.Fatalf("wrapped cause lost")
	}
	if GetCode(err) != TransportFailed {
		t.Fatalf("expected TransportFailed, got %d", GetCode(err))
	}
}

func TestGetCodeForeignError(t *testing.T) {
	if GetCode(fmt.Errorf("plain")) != InternalError {
		t.Fatalf("foreign errors must map to InternalError")
	}
	if GetCode(nil) != Success {
		t.Fatalf("nil must map to Success")
	}
}

func TestGetErrorWrapsForeign(t *testing.T) {
	e := GetError(fmt.Errorf("plain"))
	if e == nil || e.Code != InternalError {
		t.Fatalf("expected wrapped foreign error, got %+v", e)
	}
	if GetError(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestIs(t *testing.T) {
	err := New(PermissionDenied)
	if !Is(err, PermissionDenied) {
		t.Fatalf("expected code match")
	}
	if Is(err, UserNotFound) {
		t.Fatalf("unexpected code match")
	}
	if Is(nil, PermissionDenied) {
		t.Fatalf("nil never matches")
	}
}

func TestFromHTTPStatus(t *testing.T) {
	cases := []struct {
		status int
		want   ErrorCode
	}{
		{http.StatusNotFound, SubmissionNotFound},
		{http.StatusUnauthorized, Unauthorized},
		{http.StatusForbidden, Forbidden},
		{http.StatusRequestTimeout, Timeout},
		{http.StatusGatewayTimeout, Timeout},
		{http.StatusUnprocessableEntity, ValidationFailed},
		{http.StatusInternalServerError, TransportFailed},
		{http.StatusBadGateway, TransportFailed},
	}
	for _, tc := range cases {
		if got := FromHTTPStatus(tc.status, SubmissionNotFound); got != tc.want {
			t.Errorf("FromHTTPStatus(%d) = %d, want %d", tc.status, got, tc.want)
		}
	}
}

func TestValidationErrorDetails(t *testing.T) {
	err := ValidationError("source_code", "must not be empty")
	if err.Details["field"] != "source_code" || err.Details["reason"] != "must not be empty" {
		t.Fatalf("details not recorded: %+v", err.Details)
	}
}
