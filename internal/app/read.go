package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/intel/internal/cli"
	"horse.fit/intel/internal/config"
	"horse.fit/intel/internal/db"
	"horse.fit/intel/internal/logging"
	"horse.fit/intel/internal/report"
)

func runRead(args []string) int {
	fs := flag.NewFlagSet("read", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 20*time.Second, "Command timeout")
	company := fs.String("company", "", "Company slug or name (required)")
	metric := fs.String("metric", "", "Metric key to include as a series")
	theme := fs.String("theme", "", "Theme filter for insights")
	limit := fs.Int("limit", 0, "Insight/news limit (1..50, 0 for default)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if strings.TrimSpace(*company) == "" {
		fmt.Fprintln(os.Stderr, "--company is required")
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	svc := report.NewService(pool, logger)
	out, err := svc.Report(ctx, report.Query{
		Company: *company,
		Metric:  *metric,
		Theme:   *theme,
		Limit:   *limit,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Read failed: %v\n", err)
		return 1
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Encode report failed: %v\n", err)
		return 1
	}
	fmt.Println(string(encoded))
	return 0
}
