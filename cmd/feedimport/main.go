package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"parfumvilag/internal/db"
	"parfumvilag/internal/domain/storage"
	"parfumvilag/internal/feed"
	"parfumvilag/internal/logging"
)

var (
	feedFile  string
	dbURL     string
	storeName string
	currency  string
	dryRun    bool
	migrateDB bool
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "feedimport",
	Short: "Import a Google Shopping perfume feed into the catalog",
	Long: `Reads a Google Shopping XML feed, keeps the perfume entries and writes
brands, notes, perfumes and store offers in a single transaction.

Examples:
  feedimport --file notino.xml
  feedimport --file notino.xml --store Notino --currency HUF
  feedimport --file notino.xml --dry-run`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context())
	},
}

func init() {
	// .env is optional for the CLI
	_ = godotenv.Load()

	rootCmd.Flags().StringVarP(&feedFile, "file", "f", "", "Path of the XML feed (required)")
	rootCmd.Flags().StringVar(&dbURL, "db", os.Getenv("DB_ADDR"), "Database connection URL (defaults to $DB_ADDR)")
	rootCmd.Flags().StringVar(&storeName, "store", "Notino", "Store name recorded on every offer")
	rootCmd.Flags().StringVar(&currency, "currency", "HUF", "Currency recorded on every offer")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and report without writing to the database")
	rootCmd.Flags().BoolVar(&migrateDB, "migrate", false, "Apply pending schema migrations before importing")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	_ = rootCmd.MarkFlagRequired("file")
}

func runImport(ctx context.Context) error {
	logger := logging.NewLogger(verbose)
	defer logger.Sync()

	f, err := os.Open(feedFile)
	if err != nil {
		return fmt.Errorf("open feed: %w", err)
	}
	defer f.Close()

	items, skipped, err := feed.Parse(f)
	if err != nil {
		return err
	}
	logger.Infow("feed parsed", "file", feedFile, "perfumes", len(items), "skipped", skipped)

	if dryRun {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Perfumes int `json:"perfumes"`
			Skipped  int `json:"skipped"`
		}{len(items), skipped})
	}

	if dbURL == "" {
		return fmt.Errorf("--db flag or DB_ADDR is required")
	}

	pool, err := db.Open(ctx, db.Options{
		URL:         dbURL,
		MaxConns:    4,
		MaxIdleTime: time.Minute,
		Migrate:     migrateDB,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	importer := feed.NewImporter(storage.NewContainer(pool), logger, storeName, currency)
	sum, err := importer.Import(ctx, items)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	fmt.Printf("Imported %d perfumes (%d new or existing brands, %d notes, %d note links); skipped %d entries\n",
		sum.Perfumes, sum.Brands, sum.Notes, sum.Links, skipped)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
