package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-go/reactor/internal/config"
	"github.com/vango-go/reactor/internal/lessons"
	"github.com/vango-go/reactor/pkg/host"
	"github.com/vango-go/reactor/pkg/reactor"
)

// loadConfig reads the configuration named by --config, or the one found
// in the working directory, and applies the log flags.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func lookupLesson(name string) (lessons.Lesson, error) {
	l, ok := lessons.Get(name)
	if !ok {
		return lessons.Lesson{}, fmt.Errorf("unknown lesson %q (see 'reactor list')", name)
	}
	return l, nil
}

// remoteHosts builds the S3 archive and CloudWatch Logs hosts the config
// enables.
func remoteHosts(ctx context.Context, cfg *config.Config, rootID string, logger *slog.Logger) ([]reactor.Host, error) {
	var hosts []reactor.Host

	if cfg.Archive.Enabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, regionOption(cfg.Archive.Region)...)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		timeout, _ := cfg.ArchiveTimeout()
		archive := host.NewS3Archive(s3.NewFromConfig(awsCfg), cfg.Archive.Bucket, cfg.Archive.Prefix).
			WithTimeout(timeout)
		hosts = append(hosts, archive)
		logger.Info("archiving commits", "bucket", cfg.Archive.Bucket, "prefix", cfg.Archive.Prefix)
	}

	if cfg.Logs.Enabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, regionOption(cfg.Logs.Region)...)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		stream := cfg.Logs.Stream
		if stream == "" {
			stream = rootID
		}
		hosts = append(hosts, host.NewLogStream(cloudwatchlogs.NewFromConfig(awsCfg), cfg.Logs.Group, stream))
		logger.Info("sending commits to CloudWatch Logs", "group", cfg.Logs.Group, "stream", stream)
	}
	return hosts, nil
}

func regionOption(region string) []func(*awsconfig.LoadOptions) error {
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		return nil
	}
	return []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
}
