package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/younsl/iamaudit/internal/config"
	"github.com/younsl/iamaudit/internal/models"
	"github.com/younsl/iamaudit/pkg/utils"
)

// Checker runs the individual IAM checks against an IdentityAPI
type Checker struct {
	api        IdentityAPI
	thresholds config.Thresholds
	now        func() time.Time
}

// NewChecker creates a new Checker
func NewChecker(api IdentityAPI, thresholds config.Thresholds) *Checker {
	return &Checker{
		api:        api,
		thresholds: thresholds,
		now:        time.Now,
	}
}

// WithClock replaces the time source used for age calculations
func (c *Checker) WithClock(now func() time.Time) *Checker {
	c.now = now
	return c
}

// forRun returns a copy of c whose checks share a single principal listing
func (c *Checker) forRun() *Checker {
	run := *c
	run.api = &principalCache{IdentityAPI: c.api}
	return &run
}

// UsersWithoutMFA returns every user with no MFA device, in enumeration order
func (c *Checker) UsersWithoutMFA(ctx context.Context) ([]models.MFAAbsence, error) {
	logger := zerolog.Ctx(ctx).With().Str("check", string(CheckMFA)).Logger()

	principals, err := c.api.ListPrincipals(ctx)
	if err != nil {
		return nil, apiError(CheckMFA, "list users", err)
	}

	findings := []models.MFAAbsence{}
	for _, p := range principals {
		devices, err := c.api.CountMFADevices(ctx, p.UserName)
		if err != nil {
			return nil, apiError(CheckMFA, "list MFA devices", err)
		}
		if devices > 0 {
			continue
		}

		logger.Debug().Str("user", p.UserName).Msg("no MFA device")
		findings = append(findings, models.MFAAbsence{
			UserName:  p.UserName,
			CreatedAt: p.CreatedAt.UTC(),
		})
	}
	return findings, nil
}

// StaleKeys returns keys whose age in whole days exceeds MaxKeyAgeDays.
// A key exactly at the threshold is compliant.
func (c *Checker) StaleKeys(ctx context.Context) ([]models.StaleKey, error) {
	logger := zerolog.Ctx(ctx).With().Str("check", string(CheckKeyAge)).Logger()
	now := c.now().UTC()

	principals, err := c.api.ListPrincipals(ctx)
	if err != nil {
		return nil, apiError(CheckKeyAge, "list users", err)
	}

	findings := []models.StaleKey{}
	for _, p := range principals {
		keys, err := c.api.ListAccessKeys(ctx, p.UserName)
		if err != nil {
			return nil, apiError(CheckKeyAge, "list access keys", err)
		}

		for _, key := range keys {
			age := utils.ElapsedDays(now, key.CreatedAt)
			if age <= c.thresholds.MaxKeyAgeDays {
				continue
			}

			logger.Debug().Str("user", p.UserName).Str("key", utils.MaskKeyID(key.KeyID)).
				Int("age_days", age).Msg("access key due for rotation")
			findings = append(findings, models.StaleKey{
				UserName:  p.UserName,
				KeyID:     key.KeyID,
				AgeDays:   age,
				CreatedAt: key.CreatedAt.UTC(),
				Status:    key.Status,
			})
		}
	}
	return findings, nil
}

// UnusedKeys returns keys that were never used, or whose last use is more than
// InactiveKeyDays whole days ago. Keys used within the window are not reported.
func (c *Checker) UnusedKeys(ctx context.Context) ([]models.UnusedKey, error) {
	logger := zerolog.Ctx(ctx).With().Str("check", string(CheckKeyUsage)).Logger()
	now := c.now().UTC()

	principals, err := c.api.ListPrincipals(ctx)
	if err != nil {
		return nil, apiError(CheckKeyUsage, "list users", err)
	}

	findings := []models.UnusedKey{}
	for _, p := range principals {
		keys, err := c.api.ListAccessKeys(ctx, p.UserName)
		if err != nil {
			return nil, apiError(CheckKeyUsage, "list access keys", err)
		}

		for _, key := range keys {
			lastUsed, err := c.api.GetKeyLastUsed(ctx, key.KeyID)
			if err != nil {
				return nil, apiError(CheckKeyUsage, "get access key last used", err)
			}

			if lastUsed == nil {
				logger.Debug().Str("user", p.UserName).Str("key", utils.MaskKeyID(key.KeyID)).
					Msg("access key has never been used")
				findings = append(findings, models.UnusedKey{
					UserName: p.UserName,
					KeyID:    key.KeyID,
				})
				continue
			}

			days := utils.ElapsedDays(now, *lastUsed)
			if days <= c.thresholds.InactiveKeyDays {
				continue
			}

			used := lastUsed.UTC()
			logger.Debug().Str("user", p.UserName).Str("key", utils.MaskKeyID(key.KeyID)).
				Int("days_since_use", days).Msg("access key unused")
			findings = append(findings, models.UnusedKey{
				UserName:     p.UserName,
				KeyID:        key.KeyID,
				LastUsedAt:   &used,
				DaysSinceUse: &days,
			})
		}
	}
	return findings, nil
}
