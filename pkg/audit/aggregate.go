package audit

import (
	"time"

	"github.com/younsl/iamaudit/internal/models"
)

// Aggregate builds the snapshot for one run. The input slices are copied so
// the snapshot does not share backing arrays with the collectors.
func Aggregate(generatedAt time.Time, accountID string,
	mfa []models.MFAAbsence, stale []models.StaleKey, unused []models.UnusedKey) models.FindingsSnapshot {
	return models.FindingsSnapshot{
		GeneratedAt: generatedAt.UTC(),
		AccountID:   accountID,
		MFAAbsences: append([]models.MFAAbsence{}, mfa...),
		StaleKeys:   append([]models.StaleKey{}, stale...),
		UnusedKeys:  append([]models.UnusedKey{}, unused...),
	}
}
