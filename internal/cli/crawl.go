package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/artgraph/internal/model"
	"github.com/ppiankov/artgraph/internal/pipeline"
	"github.com/ppiankov/artgraph/internal/worker"
)

var (
	catalogsOut     string
	catalogsTimeout time.Duration
	crawlOut        string
	crawlOrder      string
	failureLog      string
	crawlTimeout    time.Duration
)

var catalogsCmd = &cobra.Command{
	Use:   "catalogs [collection-url]",
	Short: "List the catalogue pages linked from a collection page",
	Long: `Fetch the collection page and write every linked catalogue page that
matches the catalogue prefix, one URL per line.

Example:
  artgraph catalogs
  artgraph catalogs https://www.wikidata.org/wiki/Wikidata:WikiProject_sum_of_all_paintings/Collection_catalogs --out catalogs.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogs,
}

var crawlCmd = &cobra.Command{
	Use:   "crawl <catalog-file|url>...",
	Short: "Collect painting identifiers from catalogue pages",
	Long: `Crawl catalogue pages and every sub-page they link to, collecting the
item identifiers listed in their tables. Each argument is either a
catalogue URL or a file with one catalogue URL per line.

Pages that cannot be fetched are appended to the failure log and skipped.

Example:
  artgraph crawl catalogs.txt --out qids.txt
  artgraph crawl https://www.wikidata.org/wiki/Wikidata:WikiProject_sum_of_all_paintings/Catalog/Louvre --order bfs`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCrawl,
}

func init() {
	rootCmd.AddCommand(catalogsCmd)
	rootCmd.AddCommand(crawlCmd)

	catalogsCmd.Flags().StringVar(&catalogsOut, "out", "", "output file (default: <collection page>.txt)")
	catalogsCmd.Flags().DurationVar(&catalogsTimeout, "timeout", 2*time.Minute, "overall timeout (0 for none)")

	crawlCmd.Flags().StringVar(&crawlOut, "out", "qids.txt", "output identifier file")
	crawlCmd.Flags().StringVar(&crawlOrder, "order", "dfs", "traversal order (dfs, bfs)")
	crawlCmd.Flags().StringVar(&failureLog, "failure-log", "scrape_failures.log", "append-only log of pages that failed to fetch")
	crawlCmd.Flags().DurationVar(&crawlTimeout, "timeout", 0, "overall crawl timeout (0 for none)")
}

func runCatalogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Crawl.CollectionURL = args[0]
	}

	p, err := pipeline.New(cfg, newLogger(cfg))
	if err != nil {
		return err
	}

	ctx, cancel := runContext(catalogsTimeout)
	defer cancel()

	catalogs, err := p.ListCatalogs(ctx, cfg.Crawl.CollectionURL)
	if err != nil {
		return err
	}

	out := catalogsOut
	if out == "" {
		out = pipeline.Slug(cfg.Crawl.CollectionURL) + ".txt"
	}
	if err := pipeline.WriteLines(out, catalogs); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "✓ Wrote %d catalogue URLs to %s\n", len(catalogs), out)
	return nil
}

func runCrawl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("order") {
		cfg.Crawl.Order = crawlOrder
	}
	if cmd.Flags().Changed("failure-log") {
		cfg.Crawl.FailureLog = failureLog
	}

	roots, err := crawlRoots(args)
	if err != nil {
		return err
	}

	p, err := pipeline.New(cfg, newLogger(cfg))
	if err != nil {
		return err
	}

	ctx, cancel := runContext(crawlTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Catalogues:   %d\n", len(roots))
	fmt.Fprintf(os.Stderr, "  Order:        %s\n", cfg.Crawl.Order)
	fmt.Fprintf(os.Stderr, "  Output:       %s\n", crawlOut)
	fmt.Fprintf(os.Stderr, "  Failure log:  %s\n", cfg.Crawl.FailureLog)
	fmt.Fprintf(os.Stderr, "\n")

	spin := newProgress(!cfg.Output.Verbose, "crawling")
	var pages, found int
	p.OnCatalogPage(func(url string, n int) {
		pages++
		found += n
		spin.Update("%d pages, %d identifiers seen", pages, found)
	})

	ids, crawlErr := p.CrawlCatalogs(ctx, roots)
	spin.Stop()

	if ids != nil {
		if err := pipeline.WriteLines(crawlOut, ids.Strings()); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Crawled %d pages\n", pages)
		fmt.Fprintf(os.Stderr, "✓ Wrote %d identifiers to %s\n", ids.Len(), crawlOut)
	}
	if crawlErr != nil {
		if model.ReasonOf(crawlErr) == model.ReasonCancelled {
			fmt.Fprintf(os.Stderr, "✗ Crawl interrupted, output is partial\n")
		}
		return crawlErr
	}
	return nil
}

// crawlRoots expands arguments into catalogue URLs
func crawlRoots(args []string) ([]string, error) {
	var roots []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
			roots = append(roots, arg)
			continue
		}
		lines, err := worker.ReadLines(arg)
		if err != nil {
			return nil, fmt.Errorf("read catalogue list %s: %w", arg, err)
		}
		roots = append(roots, lines...)
	}
	return roots, nil
}
