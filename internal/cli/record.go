package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/artgraph/internal/model"
	"github.com/ppiankov/artgraph/internal/pipeline"
)

var recordTimeout time.Duration

// recordCmd assembles a single painting
var recordCmd = &cobra.Command{
	Use:   "record <identifier|url>",
	Short: "Assemble and print the record of one painting",
	Long: `Record assembles one painting and prints its record as indented JSON.

Example:
  artgraph record Q12418
  artgraph record https://www.wikidata.org/wiki/Q12418 --creator-query`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().BoolVar(&creatorQuery, "creator-query", false, "ask the SPARQL service when the painting has no creator claim")
	recordCmd.Flags().DurationVar(&recordTimeout, "timeout", 2*time.Minute, "overall timeout")
}

func runRecord(cmd *cobra.Command, args []string) error {
	id, err := model.ParseIdentifier(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("creator-query") {
		cfg.Assemble.CreatorQueryFallback = creatorQuery
	}

	p, err := pipeline.New(cfg, newLogger(cfg))
	if err != nil {
		return err
	}

	ctx, cancel := runContext(recordTimeout)
	defer cancel()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Assembling: %s\n", id)
	}

	record, err := p.AssembleRecord(ctx, id)
	if err != nil {
		return fmt.Errorf("assemble failed: %w", err)
	}
	return pipeline.WriteRecord(cmd.OutOrStdout(), record)
}
