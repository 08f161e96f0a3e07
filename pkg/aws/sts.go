package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type stsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// AccountResolver looks up the account the credentials belong to
type AccountResolver struct {
	client stsAPI
}

// NewAccountResolver creates a new AccountResolver
func NewAccountResolver(cfg aws.Config) *AccountResolver {
	return &AccountResolver{client: sts.NewFromConfig(cfg)}
}

// AccountID returns the 12-digit account ID of the caller
func (r *AccountResolver) AccountID(ctx context.Context) (string, error) {
	out, err := r.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error resolving caller identity: %w", err)
	}
	return aws.ToString(out.Account), nil
}
