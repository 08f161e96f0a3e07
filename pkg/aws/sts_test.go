package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSTS struct {
	account string
	err     error
}

func (f fakeSTS) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sts.GetCallerIdentityOutput{Account: aws.String(f.account)}, nil
}

func TestAccountID(t *testing.T) {
	r := &AccountResolver{client: fakeSTS{account: "123456789012"}}

	id, err := r.AccountID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "123456789012", id)
}

func TestAccountIDError(t *testing.T) {
	boom := errors.New("no credentials")
	r := &AccountResolver{client: fakeSTS{err: boom}}

	_, err := r.AccountID(context.Background())
	assert.ErrorIs(t, err, boom)
}
