package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/younsl/iamaudit/internal/models"
)

// IdentityAPI is the read-only view of IAM the checks consume
type IdentityAPI interface {
	ListPrincipals(ctx context.Context) ([]models.Principal, error)
	CountMFADevices(ctx context.Context, userName string) (int, error)
	ListAccessKeys(ctx context.Context, userName string) ([]models.AccessKey, error)
	// GetKeyLastUsed returns nil when the key has never been used
	GetKeyLastUsed(ctx context.Context, keyID string) (*time.Time, error)
}

// Check identifies one of the audit checks
type Check string

const (
	CheckMFA      Check = "mfa"
	CheckKeyAge   Check = "key-age"
	CheckKeyUsage Check = "key-usage"
)

// Checks lists every check in display order
var Checks = []Check{CheckMFA, CheckKeyAge, CheckKeyUsage}

// Title returns the human readable name of the check
func (c Check) Title() string {
	switch c {
	case CheckMFA:
		return "MFA"
	case CheckKeyAge:
		return "access key age"
	case CheckKeyUsage:
		return "unused access keys"
	}
	return string(c)
}

// APIError is an identity API failure that aborted a single check
type APIError struct {
	Check Check
	Op    string
	Err   error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s check failed during %s: %v", e.Check, e.Op, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

func apiError(check Check, op string, err error) error {
	return &APIError{Check: check, Op: op, Err: err}
}
