package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nao1215/workshopgen/internal/config"
	"github.com/nao1215/workshopgen/internal/database"
	"github.com/nao1215/workshopgen/internal/fetcher"
	"github.com/nao1215/workshopgen/internal/log"
	"github.com/nao1215/workshopgen/internal/model"
	"github.com/nao1215/workshopgen/internal/pipeline"
	"github.com/spf13/cobra"
)

// runGenerateCmd executes the root command.
func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.New(cmd.ErrOrStderr(), log.Options{Quiet: cfg.Quiet, Verbose: cfg.Verbose})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := generate(ctx, cmd, cfg, logger)
	if err != nil {
		return err
	}

	if run.Sink == model.SinkFile {
		logger.Info(fmt.Sprintf("Done! Wrote %d items to %s", run.ItemCount(), run.OutputPath))
	}
	return nil
}

// generate runs one generation cycle for cfg.
func generate(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (*model.Run, error) {
	opts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineLogger(logger),
		pipeline.WithPipelineStdout(cmd.OutOrStdout()),
		pipeline.WithPipelineClient(newHTTPClient(logger)),
	}

	if cfg.SaveHistory {
		db, err := database.Open(cfg.HistoryDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("history disabled for this run", "dir", cfg.HistoryDir, "error", err)
		} else {
			defer db.Close()
			opts = append(opts, pipeline.WithPipelineRecorder(db))
		}
	}

	p := pipeline.DefaultPipeline(cfg, opts...)
	gen := pipeline.NewGenerator(p, cfg.BaseURL, cfg.OutputPath())

	run, _, err := gen.Generate(ctx, cfg.CollectionID)
	return run, err
}

// requestTimeout bounds the single page request.
const requestTimeout = 30 * time.Second

// newHTTPClient returns an instrumented client identifying this tool.
func newHTTPClient(logger *slog.Logger) *resty.Client {
	client := resty.New().
		SetTimeout(requestTimeout).
		SetHeader("User-Agent", "workshopgen/"+getVersion())
	fetcher.Instrument(client, logger)
	return client
}

// buildConfig merges defaults, the configuration file and explicitly set
// flags, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly given config file must exist; the default lookup may
	// find nothing.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.Apply(file)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	flags := cmd.Flags()
	if flags.Changed("id") {
		if cfg.CollectionID, err = flags.GetString("id"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("output-dir") {
		if cfg.OutputDir, err = flags.GetString("output-dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("filename") {
		if cfg.Filename, err = flags.GetString("filename"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("quiet") {
		if cfg.Quiet, err = flags.GetBool("quiet"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("history-dir") {
		if cfg.HistoryDir, err = flags.GetString("history-dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("no-history") {
		noHistory, err := flags.GetBool("no-history")
		if err != nil {
			return nil, err
		}
		cfg.SaveHistory = !noHistory
	}
	if verbose, ok := getVerboseFlag(cmd); ok {
		cfg.Verbose = verbose
	}

	return cfg, nil
}

// getVerboseFlag returns the verbose flag and whether it was set on the
// command line.
func getVerboseFlag(cmd *cobra.Command) (verbose, changed bool) {
	flag := cmd.Flags().Lookup("verbose")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("verbose")
	}
	if flag == nil || !flag.Changed {
		return false, false
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false, false
		}
	}
	return verbose, true
}
