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
	"horse.fit/intel/internal/ingest"
	"horse.fit/intel/internal/logging"
	payloadschema "horse.fit/intel/schema"
)

func runIngest(args []string) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 20*time.Second, "Command timeout")
	payload := fs.String("payload", "", "Ingest payload JSON")
	payloadFile := fs.String("payload-file", "", "Path to payload JSON file (overrides --payload)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
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

	payloadJSON, err := loadJSONInput(*payload, *payloadFile, "payload")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid payload: %v\n", err)
		return 2
	}

	doc, err := payloadschema.ValidateIngestPayload(payloadJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid payload: %v\n", err)
		return 2
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

	svc := ingest.NewService(pool, logger)
	result, err := svc.Ingest(ctx, doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		return 1
	}

	fmt.Printf(
		"company=%s source_id=%d facts=%d insights=%d news=%d\n",
		result.CompanySlug,
		result.SourceID,
		result.Inserted.Facts,
		result.Inserted.Insights,
		result.Inserted.News,
	)
	fmt.Printf("source_uuid=%s\n", result.SourceUUID)
	return 0
}

// loadJSONInput returns the file contents when a path is given, otherwise the
// inline value. The result must be syntactically valid JSON.
func loadJSONInput(inlineValue, filePath, label string) (json.RawMessage, error) {
	raw := strings.TrimSpace(inlineValue)

	if path := strings.TrimSpace(filePath); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s file: %w", label, err)
		}
		raw = strings.TrimSpace(string(data))
	}

	if raw == "" {
		return nil, fmt.Errorf("%s is empty", label)
	}
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("%s is not valid JSON", label)
	}
	return json.RawMessage(raw), nil
}
