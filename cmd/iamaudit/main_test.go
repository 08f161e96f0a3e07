package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/iamaudit/internal/config"
	"github.com/younsl/iamaudit/internal/models"
	"github.com/younsl/iamaudit/pkg/report"
)

type stubIdentity struct {
	principals []models.Principal
	keys       map[string][]models.AccessKey
	keysErr    error
}

func (s stubIdentity) ListPrincipals(context.Context) ([]models.Principal, error) {
	return s.principals, nil
}

func (s stubIdentity) CountMFADevices(context.Context, string) (int, error) { return 0, nil }

func (s stubIdentity) ListAccessKeys(_ context.Context, userName string) ([]models.AccessKey, error) {
	if s.keysErr != nil {
		return nil, s.keysErr
	}
	return s.keys[userName], nil
}

func (s stubIdentity) GetKeyLastUsed(context.Context, string) (*time.Time, error) { return nil, nil }

// cancelledIdentity fails every call with the context's error
type cancelledIdentity struct{}

func (cancelledIdentity) ListPrincipals(ctx context.Context) ([]models.Principal, error) {
	return nil, ctx.Err()
}

func (cancelledIdentity) CountMFADevices(ctx context.Context, _ string) (int, error) {
	return 0, ctx.Err()
}

func (cancelledIdentity) ListAccessKeys(ctx context.Context, _ string) ([]models.AccessKey, error) {
	return nil, ctx.Err()
}

func (cancelledIdentity) GetKeyLastUsed(ctx context.Context, _ string) (*time.Time, error) {
	return nil, ctx.Err()
}

type stubAccount struct {
	id  string
	err error
}

func (s stubAccount) AccountID(context.Context) (string, error) { return s.id, s.err }

type stubPublisher struct {
	files []string
	err   error
}

func (s *stubPublisher) Publish(_ context.Context, files ...string) ([]string, error) {
	s.files = files
	return nil, s.err
}

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.OutputDir = filepath.Join(t.TempDir(), "reports")
	return cfg
}

func readSnapshot(t *testing.T, dir string) models.FindingsSnapshot {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "iam_audit_*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	f, err := os.Open(matches[0])
	require.NoError(t, err)
	defer f.Close()

	snap, err := report.DecodeJSON(f)
	require.NoError(t, err)
	return snap
}

func TestRunAuditFailingCheckStillWritesReport(t *testing.T) {
	cfg := testConfig(t)
	svc := services{
		identity: stubIdentity{
			principals: []models.Principal{{UserName: "alice"}},
			keysErr:    errors.New("AccessDenied"),
		},
		account: stubAccount{id: "123456789012"},
	}

	var out bytes.Buffer
	err := runAudit(context.Background(), &out, cfg, svc)
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode(err))

	assert.Contains(t, out.String(), "Error checking access key age")
	assert.Contains(t, out.String(), "Total Issues Found: 1")

	snap := readSnapshot(t, cfg.OutputDir)
	assert.Equal(t, "123456789012", snap.AccountID)
	assert.Len(t, snap.MFAAbsences, 1)
	assert.Empty(t, snap.StaleKeys)
	assert.Empty(t, snap.UnusedKeys)
}

func TestRunAuditAccountLookupFailureIsWarning(t *testing.T) {
	cfg := testConfig(t)
	svc := services{
		identity: stubIdentity{},
		account:  stubAccount{err: errors.New("no credentials")},
	}

	var out bytes.Buffer
	require.NoError(t, runAudit(context.Background(), &out, cfg, svc))
	assert.Contains(t, out.String(), "Could not resolve AWS account ID")
	assert.Contains(t, out.String(), "Total Issues Found: 0")

	snap := readSnapshot(t, cfg.OutputDir)
	assert.Empty(t, snap.AccountID)
	assert.Equal(t, 0, snap.TotalIssues())
}

func TestRunAuditPublishes(t *testing.T) {
	cfg := testConfig(t)
	cfg.S3Bucket = "audit-reports"
	pub := &stubPublisher{err: errors.New("AccessDenied")}
	svc := services{identity: stubIdentity{}, account: stubAccount{}, publisher: pub}

	var out bytes.Buffer
	require.NoError(t, runAudit(context.Background(), &out, cfg, svc), "upload failures are not fatal")

	require.Len(t, pub.files, 2)
	assert.Equal(t, ".html", filepath.Ext(pub.files[0]))
	assert.Equal(t, ".json", filepath.Ext(pub.files[1]))
	assert.Contains(t, out.String(), "Could not upload reports to s3://audit-reports")
}

func TestRunAuditRenderFailureIsFatal(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cfg.OutputDir = blocker

	err := runAudit(context.Background(), &bytes.Buffer{}, cfg, services{identity: stubIdentity{}, account: stubAccount{}})

	var renderErr *report.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, 1, exitCode(err))
}

func TestRunAuditInterrupted(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := services{
		identity: cancelledIdentity{},
		account:  stubAccount{id: "123456789012"},
	}

	var out bytes.Buffer
	err := runAudit(ctx, &out, cfg, svc)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 130, exitCode(err))

	assert.NoDirExists(t, cfg.OutputDir)
	assert.NotContains(t, out.String(), "Total Issues Found")
}

func TestRootCmdFlagsAreIndependent(t *testing.T) {
	first, second := newRootCmd(), newRootCmd()
	first.SetArgs([]string{"--version"})
	first.SetOut(&bytes.Buffer{})
	require.NoError(t, first.Execute())

	shown, err := second.Flags().GetBool("version")
	require.NoError(t, err)
	assert.False(t, shown)
}

func TestExitCodeForConfigError(t *testing.T) {
	err := &config.ConfigError{Field: "max_key_age_days", Reason: "must be positive"}
	assert.Equal(t, 2, exitCode(err))
}

func TestRootCmdRejectsInvalidFlags(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--max-key-age-days=0"})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "max_key_age_days", cfgErr.Field)
}

func TestRootCmdVersion(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--version"})
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "iamaudit version")
}
