package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Severity of a finding. It is derived from the finding type and never stored.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

const (
	// NeverUsed is written in place of a last-used timestamp for keys with no usage record
	NeverUsed = "Never"
	// NotApplicable is written in place of a day count that cannot be computed
	NotApplicable = "N/A"
)

// MFAAbsence is an IAM user with no MFA device registered
type MFAAbsence struct {
	UserName  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Severity returns the fixed severity for users without MFA
func (MFAAbsence) Severity() Severity { return SeverityHigh }

// MarshalJSON adds the derived severity to the encoded record
func (m MFAAbsence) MarshalJSON() ([]byte, error) {
	type alias MFAAbsence
	return json.Marshal(struct {
		alias
		Severity Severity `json:"severity"`
	}{alias(m), m.Severity()})
}

// StaleKey is an access key older than the rotation threshold
type StaleKey struct {
	UserName  string    `json:"username"`
	KeyID     string    `json:"access_key_id"`
	AgeDays   int       `json:"age_days"`
	CreatedAt time.Time `json:"created_at"`
	Status    KeyStatus `json:"status"`
}

// Severity returns the fixed severity for keys due for rotation
func (StaleKey) Severity() Severity { return SeverityMedium }

// MarshalJSON adds the derived severity to the encoded record
func (k StaleKey) MarshalJSON() ([]byte, error) {
	type alias StaleKey
	return json.Marshal(struct {
		alias
		Severity Severity `json:"severity"`
	}{alias(k), k.Severity()})
}

// UnusedKey is an access key that was never used or not used within the
// inactivity threshold. LastUsedAt and DaysSinceUse are nil for never-used keys.
type UnusedKey struct {
	UserName     string     `json:"username"`
	KeyID        string     `json:"access_key_id"`
	LastUsedAt   *time.Time `json:"-"`
	DaysSinceUse *int       `json:"-"`
}

// Severity returns the fixed severity for unused keys
func (UnusedKey) Severity() Severity { return SeverityLow }

// NeverUsed reports whether the key has no usage record at all
func (k UnusedKey) NeverUsed() bool { return k.LastUsedAt == nil }

// LastUsedString returns the last-used timestamp in RFC 3339, or "Never"
func (k UnusedKey) LastUsedString() string {
	if k.LastUsedAt == nil {
		return NeverUsed
	}
	return k.LastUsedAt.UTC().Format(time.RFC3339)
}

// DaysSinceUseString returns the idle day count, or "N/A"
func (k UnusedKey) DaysSinceUseString() string {
	if k.DaysSinceUse == nil {
		return NotApplicable
	}
	return fmt.Sprintf("%d", *k.DaysSinceUse)
}

// MarshalJSON writes "Never" and "N/A" for keys without a usage record
func (k UnusedKey) MarshalJSON() ([]byte, error) {
	type alias UnusedKey
	var lastUsed, days any = NeverUsed, NotApplicable
	if k.LastUsedAt != nil {
		lastUsed = k.LastUsedAt
	}
	if k.DaysSinceUse != nil {
		days = *k.DaysSinceUse
	}
	return json.Marshal(struct {
		alias
		LastUsed     any      `json:"last_used"`
		DaysSinceUse any      `json:"days_since_use"`
		Severity     Severity `json:"severity"`
	}{alias(k), lastUsed, days, k.Severity()})
}

// UnmarshalJSON accepts either concrete values or the "Never" / "N/A" markers
func (k *UnusedKey) UnmarshalJSON(data []byte) error {
	type alias UnusedKey
	aux := struct {
		*alias
		LastUsed     json.RawMessage `json:"last_used"`
		DaysSinceUse json.RawMessage `json:"days_since_use"`
	}{alias: (*alias)(k)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	k.LastUsedAt = nil
	if len(aux.LastUsed) > 0 && !isMarker(aux.LastUsed, NeverUsed) {
		var t time.Time
		if err := json.Unmarshal(aux.LastUsed, &t); err != nil {
			return fmt.Errorf("invalid last_used for key %s: %w", k.KeyID, err)
		}
		k.LastUsedAt = &t
	}

	k.DaysSinceUse = nil
	if len(aux.DaysSinceUse) > 0 && !isMarker(aux.DaysSinceUse, NotApplicable) {
		var d int
		if err := json.Unmarshal(aux.DaysSinceUse, &d); err != nil {
			return fmt.Errorf("invalid days_since_use for key %s: %w", k.KeyID, err)
		}
		k.DaysSinceUse = &d
	}
	return nil
}

func isMarker(raw json.RawMessage, marker string) bool {
	if string(raw) == "null" {
		return true
	}
	var s string
	return json.Unmarshal(raw, &s) == nil && s == marker
}

// FindingsSnapshot holds every finding of a single audit run
type FindingsSnapshot struct {
	GeneratedAt time.Time    `json:"generated_at"`
	AccountID   string       `json:"account_id,omitempty"`
	MFAAbsences []MFAAbsence `json:"users_without_mfa"`
	StaleKeys   []StaleKey   `json:"old_access_keys"`
	UnusedKeys  []UnusedKey  `json:"unused_access_keys"`
}

// TotalIssues returns the number of findings across all categories
func (s FindingsSnapshot) TotalIssues() int {
	return len(s.MFAAbsences) + len(s.StaleKeys) + len(s.UnusedKeys)
}
