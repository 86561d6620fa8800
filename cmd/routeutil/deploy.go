package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andreasphil/routeutil/internal/config"
	"github.com/andreasphil/routeutil/internal/deploy"
)

func deployCmd() *cobra.Command {
	var (
		bucket      string
		prefix      string
		region      string
		deleteStale bool
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Upload the build output to S3",
		Long: `Upload the build output directory to an S3 bucket.

Files that already exist remotely with the same content are
skipped. Credentials come from the standard AWS environment
(environment variables, shared config, or instance roles).

Examples:
  routeutil deploy
  routeutil deploy --bucket=my-site --region=eu-central-1
  routeutil deploy --delete --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(bucket, prefix, region, deleteStale, dryRun)
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "Target bucket (default from routeutil.json)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix inside the bucket")
	cmd.Flags().StringVar(&region, "region", "", "AWS region")
	cmd.Flags().BoolVar(&deleteStale, "delete", false, "Delete remote files that no longer exist locally")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without uploading")

	return cmd
}

func runDeploy(bucket, prefix, region string, deleteStale, dryRun bool) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	// Flags win over routeutil.json.
	if bucket == "" {
		bucket = cfg.Deploy.Bucket
	}
	if prefix == "" {
		prefix = cfg.Deploy.Prefix
	}
	if region == "" {
		region = cfg.Deploy.Region
	}

	fmt.Println("  Deploy")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	syncer, err := deploy.NewFromEnv(ctx, deploy.Options{
		Bucket: bucket,
		Prefix: prefix,
		Region: region,
		Delete: deleteStale,
		DryRun: dryRun,
		Logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
	})
	if err != nil {
		return err
	}

	result, err := syncer.Sync(ctx, cfg.OutputPath())
	if err != nil {
		return err
	}

	fmt.Println()
	if dryRun {
		success("Dry run: %d to upload, %d unchanged, %d to delete",
			result.Uploaded, result.Skipped, result.Deleted)
		return nil
	}

	success("Deployed: %d uploaded, %d unchanged, %d deleted",
		result.Uploaded, result.Skipped, result.Deleted)
	info("s3://%s", bucket)

	return nil
}
