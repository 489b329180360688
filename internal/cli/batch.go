package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ppiankov/artgraph/internal/model"
	"github.com/ppiankov/artgraph/internal/pipeline"
	"github.com/ppiankov/artgraph/internal/store"
	"github.com/ppiankov/artgraph/internal/worker"
)

var (
	assembleOut     string
	workers         int
	pretty          bool
	sqlitePath      string
	creatorQuery    bool
	assembleTimeout time.Duration
)

// assembleCmd builds records for an identifier list
var assembleCmd = &cobra.Command{
	Use:   "assemble <identifier-file>",
	Short: "Assemble painting records for a list of identifiers",
	Long: `Assemble reads identifiers (or entity URLs) one per line and writes
one record per painting to a {"data": [...]} document.

An identifier that cannot be assembled is reported and skipped; it never
stops the batch. Lookups are sequential unless --workers is raised.

Example:
  artgraph assemble qids.txt
  artgraph assemble qids.txt --out data.json --pretty
  artgraph assemble qids.txt --workers 4 --sqlite paintings.db`,
	Args: cobra.ExactArgs(1),
	RunE: runAssemble,
}

func init() {
	rootCmd.AddCommand(assembleCmd)

	assembleCmd.Flags().StringVar(&assembleOut, "out", "data.json", "output JSON document")
	assembleCmd.Flags().IntVar(&workers, "workers", 1, "number of concurrent assemblies")
	assembleCmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	assembleCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "also store records in this SQLite database")
	assembleCmd.Flags().BoolVar(&creatorQuery, "creator-query", false, "ask the SPARQL service when a painting has no creator claim")
	assembleCmd.Flags().DurationVar(&assembleTimeout, "timeout", 0, "overall timeout (0 for none)")
}

// applyAssembleFlags copies explicitly set flags over the loaded configuration
func applyAssembleFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Concurrency.Workers = workers
	}
	if flags.Changed("pretty") {
		cfg.Output.Pretty = pretty
	}
	if flags.Changed("sqlite") {
		cfg.Output.SQLitePath = sqlitePath
	}
	if flags.Changed("creator-query") {
		cfg.Assemble.CreatorQueryFallback = creatorQuery
	}
}

func runAssemble(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAssembleFlags(cmd, cfg)

	logger := newLogger(cfg)
	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	var db *store.SQLiteStore
	if cfg.Output.SQLitePath != "" {
		if db, err = store.Open(cfg.Output.SQLitePath); err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
	}

	ctx, cancel := runContext(assembleTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output:       %s\n", assembleOut)
	if db != nil {
		fmt.Fprintf(os.Stderr, "  SQLite:       %s\n", cfg.Output.SQLitePath)
	}
	fmt.Fprintf(os.Stderr, "\n")

	spin := newProgress(!cfg.Output.Verbose, "assembling")
	results, err := p.AssembleFile(ctx, file, func(done, total int, r *worker.AssembleResult) {
		spin.Update("%d/%d %s", done, total, r.ID)
		if r.Error == nil && db != nil {
			saveRecord(ctx, db, r.Record, logger)
		}
	})
	spin.Stop()
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	records := pipeline.Records(results)
	for _, r := range results {
		if r.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.ID, r.Error)
		}
	}

	if err := pipeline.WriteDocumentFile(assembleOut, records, cfg.Output.Pretty); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d identifiers\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", len(records))
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", len(results)-len(records))
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", assembleOut)
	fmt.Fprintf(os.Stderr, "\n")

	if ctx.Err() != nil {
		return fmt.Errorf("assembly interrupted: %w", ctx.Err())
	}
	return nil
}

func saveRecord(ctx context.Context, db *store.SQLiteStore, record *model.Record, logger *log.Logger) {
	if err := db.SaveRecord(ctx, record); err != nil {
		logger.Error("failed to store record", "id", record.Article.ID, "err", err)
	}
}
