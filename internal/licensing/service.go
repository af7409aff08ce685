// Package licensing implements issuance of activation keys: generate, persist
// to the Supabase licenses table, then best-effort email. The persisted record
// is the single source of truth for validity; email failure never unwinds an
// issued license.
package licensing

import (
	"context"
	"strings"
	"time"

	"github.com/mikekode/creenly-licensing/pkg/enums"
	pkgerrors "github.com/mikekode/creenly-licensing/pkg/errors"
	"github.com/mikekode/creenly-licensing/pkg/keygen"
	"github.com/mikekode/creenly-licensing/pkg/logger"
	"github.com/mikekode/creenly-licensing/pkg/metrics"
	"github.com/mikekode/creenly-licensing/pkg/resend"
	"github.com/mikekode/creenly-licensing/pkg/supabase"
)

const (
	// DefaultValidityDays is applied when the caller does not specify a period.
	DefaultValidityDays = 365

	// maxPersistAttempts bounds key regeneration on uniqueness conflicts.
	// Conflicts are effectively impossible at the 36^12 keyspace; the bound
	// exists so a misbehaving store cannot loop us.
	maxPersistAttempts = 3

	day = 24 * time.Hour
)

// License is the unit persisted per issuance. CurrentPeriodEnd is RFC 3339 UTC.
type License struct {
	Key              string              `json:"license_key"`
	Email            string              `json:"email"`
	Status           enums.LicenseStatus `json:"status"`
	CurrentPeriodEnd string              `json:"current_period_end"`
}

// Store persists license rows. Inserts are insert-only; duplicates must be
// rejected with a CONFLICT-coded error, not overwritten.
type Store interface {
	InsertLicense(ctx context.Context, row supabase.LicenseRow) error
}

// EmailSender delivers the key to the customer. May be nil when no provider
// credential is configured, in which case dispatch is skipped.
type EmailSender interface {
	Send(ctx context.Context, msg resend.Message) error
}

// IssueInput carries the caller-supplied issuance parameters.
type IssueInput struct {
	Email        string
	ValidityDays int
}

// Service exposes the issuance workflow.
type Service interface {
	IssueLicense(ctx context.Context, input IssueInput) (*License, error)
}

type service struct {
	store   Store
	mailer  EmailSender
	from    string
	logg    *logger.Logger
	metrics *metrics.IssuanceMetrics
	now     func() time.Time
}

// NewService builds the issuance service. A nil store is tolerated here and
// refused at issue time so the missing-credential case surfaces as a
// configuration error without any network activity. A nil mailer degrades
// dispatch to a logged skip.
func NewService(store Store, mailer EmailSender, fromEmail string, logg *logger.Logger, m *metrics.IssuanceMetrics) (Service, error) {
	if mailer != nil && strings.TrimSpace(fromEmail) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "sender address required when email provider is configured")
	}
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "licensing"})
	}
	return &service{
		store:   store,
		mailer:  mailer,
		from:    strings.TrimSpace(fromEmail),
		logg:    logg,
		metrics: m,
		now:     time.Now,
	}, nil
}

// IssueLicense runs the two-step sequence: insert-only persist, then
// best-effort notify. Configuration and store failures abort; notification
// failures are downgraded to warnings.
func (s *service) IssueLicense(ctx context.Context, input IssueInput) (*License, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		s.metrics.IncFailure("validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}

	if s.store == nil {
		s.metrics.IncFailure("configuration")
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration,
			"supabase service key is not configured; set "+supabaseKeyHint)
	}

	days := input.ValidityDays
	if days == 0 {
		days = DefaultValidityDays
	}
	expiry := computeExpiry(s.now(), days)

	record, err := s.persist(ctx, email, expiry)
	if err != nil {
		return nil, err
	}

	s.metrics.IncIssued()
	ctx = s.logg.WithLicenseKey(ctx, record.Key)
	s.logg.Info(s.logg.WithField(ctx, "expires", record.CurrentPeriodEnd), "license issued")

	s.notify(ctx, record)
	return record, nil
}

// persist inserts the record, regenerating the key only on uniqueness
// conflicts, up to maxPersistAttempts total tries.
func (s *service) persist(ctx context.Context, email, expiry string) (*License, error) {
	for attempt := 1; ; attempt++ {
		key, err := keygen.NewKey()
		if err != nil {
			s.metrics.IncFailure("keygen")
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate license key")
		}

		record := &License{
			Key:              key,
			Email:            email,
			Status:           enums.LicenseStatusActive,
			CurrentPeriodEnd: expiry,
		}

		err = s.store.InsertLicense(ctx, supabase.LicenseRow{
			LicenseKey:       record.Key,
			Email:            record.Email,
			Status:           record.Status.String(),
			CurrentPeriodEnd: record.CurrentPeriodEnd,
		})
		if err == nil {
			return record, nil
		}

		if pkgerrors.HasCode(err, pkgerrors.CodeConflict) && attempt < maxPersistAttempts {
			s.logg.Warn(s.logg.WithLicenseKey(ctx, key), "license key collision, regenerating")
			continue
		}

		// The key is logged so an operator can reconcile against the store if
		// the insert actually committed before a timeout fired.
		s.logg.Error(s.logg.WithLicenseKey(ctx, key), "license insert failed", err)
		s.metrics.IncFailure(failureReason(err))
		return nil, err
	}
}

// notify sends the key email. Every outcome here leaves the issued license
// intact; nothing propagates to the caller.
func (s *service) notify(ctx context.Context, record *License) {
	ctx = s.logg.WithField(ctx, "to", record.Email)

	if s.mailer == nil {
		s.metrics.IncEmailSkipped()
		s.logg.Warn(ctx, "email provider not configured, deliver the key manually")
		return
	}

	if err := s.mailer.Send(ctx, licenseEmail(s.from, record.Email, record.Key)); err != nil {
		s.metrics.IncEmailFailure()
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "license email failed, license remains active")
		return
	}

	s.metrics.IncEmailSent()
	s.logg.Info(ctx, "license email sent")
}

// computeExpiry returns creation time plus the validity period, RFC 3339 UTC.
// Zero or negative days are not guarded; callers own that contract.
func computeExpiry(now time.Time, days int) string {
	return now.UTC().Add(time.Duration(days) * day).Format(time.RFC3339)
}

func failureReason(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "unknown"
	}
	switch typed.Code() {
	case pkgerrors.CodeConflict:
		return "conflict"
	case pkgerrors.CodeDependency:
		return "transport"
	default:
		return "store"
	}
}

const supabaseKeyHint = "CREENLY_SUPABASE_SERVICE_KEY (service_role secret from Supabase Dashboard > Settings > API)"
