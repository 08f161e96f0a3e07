package audit

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/younsl/iamaudit/internal/models"
)

// fakeIdentity is a read-only in-memory IdentityAPI
type fakeIdentity struct {
	principals []models.Principal
	mfa        map[string]int
	keys       map[string][]models.AccessKey
	lastUsed   map[string]time.Time

	listErr     error
	mfaErr      error
	keysErr     error
	lastUsedErr error

	listCalls atomic.Int32
}

func (f *fakeIdentity) ListPrincipals(ctx context.Context) ([]models.Principal, error) {
	f.listCalls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.principals, nil
}

func (f *fakeIdentity) CountMFADevices(_ context.Context, userName string) (int, error) {
	if f.mfaErr != nil {
		return 0, f.mfaErr
	}
	return f.mfa[userName], nil
}

func (f *fakeIdentity) ListAccessKeys(_ context.Context, userName string) ([]models.AccessKey, error) {
	if f.keysErr != nil {
		return nil, f.keysErr
	}
	return f.keys[userName], nil
}

func (f *fakeIdentity) GetKeyLastUsed(_ context.Context, keyID string) (*time.Time, error) {
	if f.lastUsedErr != nil {
		return nil, f.lastUsedErr
	}
	t, ok := f.lastUsed[keyID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}
