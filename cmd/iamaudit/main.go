package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/younsl/iamaudit/internal/config"
	"github.com/younsl/iamaudit/internal/version"
	"github.com/younsl/iamaudit/pkg/audit"
	"github.com/younsl/iamaudit/pkg/aws"
	"github.com/younsl/iamaudit/pkg/formatter"
	"github.com/younsl/iamaudit/pkg/report"
	"github.com/younsl/iamaudit/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath  string
		showVersion bool
	)
	defaults := config.Default()

	rootCmd := &cobra.Command{
		Use:   "iamaudit",
		Short: "CLI tool to audit AWS IAM for common misconfigurations",
		Long: `iamaudit checks an AWS account for IAM users without MFA,
access keys that are due for rotation, and access keys that are unused.
It writes an HTML report and a JSON snapshot of the findings.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.Get())
				return nil
			}

			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flags.StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	flags.Int("max-key-age-days", defaults.MaxKeyAgeDays, "Flag access keys older than this many days")
	flags.Int("inactive-key-days", defaults.InactiveKeyDays, "Flag access keys not used in this many days")
	flags.StringP("output-dir", "o", defaults.OutputDir, "Directory for the HTML and JSON reports")
	flags.StringP("region", "r", defaults.Region, "AWS region used for API endpoints (default from the AWS SDK chain, then us-east-1)")
	flags.StringP("profile", "p", defaults.Profile, "AWS shared config profile")
	flags.String("s3-bucket", defaults.S3Bucket, "Upload the reports to this S3 bucket")
	flags.String("s3-prefix", defaults.S3Prefix, "Key prefix for uploaded reports")
	flags.String("log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")

	return rootCmd
}

type accountResolver interface {
	AccountID(ctx context.Context) (string, error)
}

type publisher interface {
	Publish(ctx context.Context, files ...string) ([]string, error)
}

// services are the AWS-backed collaborators of a run
type services struct {
	identity  audit.IdentityAPI
	account   accountResolver
	publisher publisher // nil when no bucket is configured
}

func newServices(ctx context.Context, cfg config.Config) (services, error) {
	awsCfg, err := aws.LoadConfig(ctx, cfg.Region, cfg.Profile)
	if err != nil {
		return services{}, err
	}

	logger := zerolog.Ctx(ctx)
	if !utils.IsValidRegion(awsCfg.Region) {
		logger.Warn().Str("region", awsCfg.Region).Msg("region is not in the known region list, using it as given")
	}
	logger.Info().Str("region", awsCfg.Region).Str("partition", utils.Partition(awsCfg.Region)).
		Msgf("using %s endpoints", utils.RegionName(awsCfg.Region))

	svc := services{
		identity: aws.NewIAMClient(awsCfg),
		account:  aws.NewAccountResolver(awsCfg),
	}
	if cfg.S3Bucket != "" {
		svc.publisher = aws.NewS3Publisher(awsCfg, cfg.S3Bucket, cfg.S3Prefix)
	}
	return svc, nil
}

func run(ctx context.Context, out io.Writer, cfg config.Config) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(cfg.Level()).
		With().Timestamp().Str("run_id", uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx)

	svc, err := newServices(ctx, cfg)
	if err != nil {
		return err
	}
	return runAudit(ctx, out, cfg, svc)
}

// runAudit performs one audit. Check failures are reported but do not fail
// the run; report failures do.
func runAudit(ctx context.Context, out io.Writer, cfg config.Config, svc services) error {
	start := time.Now()
	logger := zerolog.Ctx(ctx)

	formatter.PrintBanner(out)

	accountID, err := svc.account.AccountID(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("could not resolve account ID")
		formatter.PrintWarning(out, "Could not resolve AWS account ID: %v", err)
	} else {
		logger.Info().Str("account_id", accountID).Msg("auditing account")
	}

	checker := audit.NewChecker(svc.identity, cfg.Thresholds)

	sp := formatter.StartSpinner("Running IAM security checks ...")
	snap, results := audit.NewRunner(checker, accountID).Run(ctx)
	sp.Stop()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("audit interrupted before the report was written: %w", err)
	}

	failed := 0
	for _, result := range results {
		formatter.PrintCheckResult(out, result)
		if result.Failed() {
			failed++
			logger.Warn().Err(result.Err).Str("check", string(result.Check)).
				Msg("check failed, continuing without its findings")
		}
	}

	formatter.FormatFindingsTables(out, snap)

	artifacts, err := report.Write(snap, cfg.OutputDir)
	if err != nil {
		return err
	}
	logger.Info().Str("html", artifacts.HTMLPath).Str("json", artifacts.JSONPath).Msg("report written")

	var uploaded []string
	if svc.publisher != nil {
		uploaded, err = svc.publisher.Publish(ctx, artifacts.Files()...)
		if err != nil {
			logger.Warn().Err(err).Str("bucket", cfg.S3Bucket).Msg("report upload failed")
			formatter.PrintWarning(out, "Could not upload reports to s3://%s: %v", cfg.S3Bucket, err)
		}
	}

	formatter.PrintSummary(out, formatter.Summary{
		TotalIssues:  snap.TotalIssues(),
		FailedChecks: failed,
		HTMLPath:     artifacts.HTMLPath,
		JSONPath:     artifacts.JSONPath,
		Uploaded:     uploaded,
		Duration:     time.Since(start),
	})
	return nil
}

// exitCode maps run errors to a process status: 2 for configuration
// problems, 130 for an interrupted run, 1 for everything else.
func exitCode(err error) int {
	var cfgErr *config.ConfigError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &cfgErr):
		return 2
	case errors.Is(err, context.Canceled):
		return 130
	}
	return 1
}
