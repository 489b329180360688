package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/artgraph/internal/pipeline"
)

var filterOut string

// filterCmd drops records that have no image
var filterCmd = &cobra.Command{
	Use:   "filter <data.json>",
	Short: "Keep only records that carry an image",
	Long: `Filter reads an assembled document and writes the records whose image
field holds at least one link. Kept records are copied unchanged.

Example:
  artgraph filter data.json --out data_with_images.json`,
	Args: cobra.ExactArgs(1),
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(filterCmd)

	filterCmd.Flags().StringVar(&filterOut, "out", "data_with_images.json", "output JSON document")
	filterCmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
}

func runFilter(cmd *cobra.Command, args []string) (err error) {
	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(filterOut)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output: %w", closeErr)
		}
	}()

	stats, err := pipeline.FilterImages(in, out, pretty)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Kept %d entries out of %d\n", stats.Kept, stats.Total)
	return nil
}
