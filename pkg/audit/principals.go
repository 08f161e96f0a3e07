package audit

import (
	"context"
	"sync"

	"github.com/younsl/iamaudit/internal/models"
)

// principalCache lists principals once and serves the same result to every
// concurrent check of a run. The returned slice must not be modified.
type principalCache struct {
	IdentityAPI

	once       sync.Once
	principals []models.Principal
	err        error
}

func (p *principalCache) ListPrincipals(ctx context.Context) ([]models.Principal, error) {
	p.once.Do(func() {
		p.principals, p.err = p.IdentityAPI.ListPrincipals(ctx)
	})
	return p.principals, p.err
}
