package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mikekode/creenly-licensing/internal/licensing"
	"github.com/mikekode/creenly-licensing/pkg/enums"
	pkgerrors "github.com/mikekode/creenly-licensing/pkg/errors"
)

type stubLicensingService struct {
	lastInput licensing.IssueInput
	record    *licensing.License
	err       error
	calls     int
}

func (s *stubLicensingService) IssueLicense(ctx context.Context, input licensing.IssueInput) (*licensing.License, error) {
	s.calls++
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

func issueRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/licenses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestLicenseIssueSuccess(t *testing.T) {
	svc := &stubLicensingService{record: &licensing.License{
		Key:              "PRO-AAAA-BBBB-CCCC",
		Email:            "buyer@example.com",
		Status:           enums.LicenseStatusActive,
		CurrentPeriodEnd: "2027-03-01T12:00:00Z",
	}}

	rec := httptest.NewRecorder()
	LicenseIssue(svc, nil)(rec, issueRequest(`{"email":"buyer@example.com","validity_days":30}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	if svc.lastInput.Email != "buyer@example.com" || svc.lastInput.ValidityDays != 30 {
		t.Fatalf("unexpected input %+v", svc.lastInput)
	}

	var envelope struct {
		Data licensing.License `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Key != "PRO-AAAA-BBBB-CCCC" {
		t.Fatalf("unexpected key %q", envelope.Data.Key)
	}
}

func TestLicenseIssueDefaultsValidityDays(t *testing.T) {
	svc := &stubLicensingService{record: &licensing.License{Key: "PRO-AAAA-BBBB-CCCC"}}

	rec := httptest.NewRecorder()
	LicenseIssue(svc, nil)(rec, issueRequest(`{"email":"buyer@example.com"}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if svc.lastInput.ValidityDays != 0 {
		t.Fatalf("validity_days should pass through as zero for the service default, got %d", svc.lastInput.ValidityDays)
	}
}

func TestLicenseIssueValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"validity_days":30}`},
		{"bad email", `{"email":"not-an-email"}`},
		{"zero days rejected at edge", `{"email":"buyer@example.com","validity_days":-1}`},
		{"unknown field", `{"email":"buyer@example.com","extra":true}`},
		{"malformed json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubLicensingService{}
			rec := httptest.NewRecorder()
			LicenseIssue(svc, nil)(rec, issueRequest(tc.body))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
			}
			if svc.calls != 0 {
				t.Fatalf("service must not be called for invalid input")
			}
		})
	}
}

func TestLicenseIssueMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"configuration", pkgerrors.New(pkgerrors.CodeConfiguration, "missing service key"), http.StatusInternalServerError},
		{"conflict", pkgerrors.New(pkgerrors.CodeConflict, "license key already exists"), http.StatusConflict},
		{"issuance", pkgerrors.New(pkgerrors.CodeIssuance, "license insert rejected"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubLicensingService{err: tc.err}
			rec := httptest.NewRecorder()
			LicenseIssue(svc, nil)(rec, issueRequest(`{"email":"buyer@example.com"}`))

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestLicenseIssueNilService(t *testing.T) {
	rec := httptest.NewRecorder()
	LicenseIssue(nil, nil)(rec, issueRequest(`{"email":"buyer@example.com"}`))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
