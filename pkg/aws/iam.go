package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/rs/zerolog"
	"github.com/younsl/iamaudit/internal/models"
)

// iamAPI is the subset of the IAM client used by the audit
type iamAPI interface {
	ListUsers(ctx context.Context, params *iam.ListUsersInput, optFns ...func(*iam.Options)) (*iam.ListUsersOutput, error)
	ListMFADevices(ctx context.Context, params *iam.ListMFADevicesInput, optFns ...func(*iam.Options)) (*iam.ListMFADevicesOutput, error)
	ListAccessKeys(ctx context.Context, params *iam.ListAccessKeysInput, optFns ...func(*iam.Options)) (*iam.ListAccessKeysOutput, error)
	GetAccessKeyLastUsed(ctx context.Context, params *iam.GetAccessKeyLastUsedInput, optFns ...func(*iam.Options)) (*iam.GetAccessKeyLastUsedOutput, error)
}

// IAMClient struct for IAM client
type IAMClient struct {
	client iamAPI
}

// NewIAMClient creates a new IAMClient.
// IAM is a global service; the region in cfg only selects the endpoint.
func NewIAMClient(cfg aws.Config) *IAMClient {
	return &IAMClient{client: iam.NewFromConfig(cfg)}
}

// ListPrincipals returns the IAM users in the account, in API order.
// Only the first page is read.
func (c *IAMClient) ListPrincipals(ctx context.Context) ([]models.Principal, error) {
	result, err := c.client.ListUsers(ctx, &iam.ListUsersInput{})
	if err != nil {
		return nil, fmt.Errorf("error listing IAM users: %w", err)
	}
	if result.IsTruncated {
		zerolog.Ctx(ctx).Warn().Int("users", len(result.Users)).
			Msg("IAM user list is truncated, only the first page is audited")
	}

	principals := make([]models.Principal, 0, len(result.Users))
	for _, user := range result.Users {
		principals = append(principals, models.Principal{
			UserName:  aws.ToString(user.UserName),
			CreatedAt: aws.ToTime(user.CreateDate),
		})
	}
	return principals, nil
}

// CountMFADevices returns the number of MFA devices registered for userName
func (c *IAMClient) CountMFADevices(ctx context.Context, userName string) (int, error) {
	result, err := c.client.ListMFADevices(ctx, &iam.ListMFADevicesInput{
		UserName: aws.String(userName),
	})
	if err != nil {
		return 0, fmt.Errorf("error listing MFA devices for %s: %w", userName, err)
	}
	return len(result.MFADevices), nil
}

// ListAccessKeys returns the access keys of userName, in API order
func (c *IAMClient) ListAccessKeys(ctx context.Context, userName string) ([]models.AccessKey, error) {
	result, err := c.client.ListAccessKeys(ctx, &iam.ListAccessKeysInput{
		UserName: aws.String(userName),
	})
	if err != nil {
		return nil, fmt.Errorf("error listing access keys for %s: %w", userName, err)
	}

	keys := make([]models.AccessKey, 0, len(result.AccessKeyMetadata))
	for _, key := range result.AccessKeyMetadata {
		keys = append(keys, models.AccessKey{
			KeyID:     aws.ToString(key.AccessKeyId),
			CreatedAt: aws.ToTime(key.CreateDate),
			Status:    models.KeyStatus(key.Status),
		})
	}
	return keys, nil
}

// GetKeyLastUsed returns when keyID was last used, or nil if it never was
func (c *IAMClient) GetKeyLastUsed(ctx context.Context, keyID string) (*time.Time, error) {
	result, err := c.client.GetAccessKeyLastUsed(ctx, &iam.GetAccessKeyLastUsedInput{
		AccessKeyId: aws.String(keyID),
	})
	if err != nil {
		return nil, fmt.Errorf("error getting last use of key %s: %w", keyID, err)
	}
	if result.AccessKeyLastUsed == nil || result.AccessKeyLastUsed.LastUsedDate == nil {
		return nil, nil
	}
	lastUsed := result.AccessKeyLastUsed.LastUsedDate.UTC()
	return &lastUsed, nil
}
