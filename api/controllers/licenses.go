package controllers

import (
	"net/http"
	"strings"

	"github.com/mikekode/creenly-licensing/api/responses"
	"github.com/mikekode/creenly-licensing/api/validators"
	"github.com/mikekode/creenly-licensing/internal/licensing"
	pkgerrors "github.com/mikekode/creenly-licensing/pkg/errors"
	"github.com/mikekode/creenly-licensing/pkg/logger"
)

type licenseIssueRequest struct {
	Email        string `json:"email" validate:"required,email"`
	ValidityDays int    `json:"validity_days" validate:"omitempty,min=1"`
}

// LicenseIssue handles POST /api/v1/licenses: issue one key, persist it, and
// best-effort email it to the customer.
func LicenseIssue(svc licensing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "licensing service unavailable"))
			return
		}

		var req licenseIssueRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.IssueLicense(r.Context(), licensing.IssueInput{
			Email:        strings.TrimSpace(req.Email),
			ValidityDays: req.ValidityDays,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}
