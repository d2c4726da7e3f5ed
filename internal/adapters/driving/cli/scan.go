package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openroster/affilscan/internal/core/domain"
)

var scanCmd = &cobra.Command{
	Use:   "scan [file...]",
	Short: "Scan filings for institution affiliations",
	Long: `Runs filings through the extraction pipeline and reconciles the
resulting claims into the roster.

Arguments are paths to filing documents on disk. With --cached, arguments
are accession numbers of documents already in the cache instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

var (
	scanCached     bool
	scanCompany    string
	scanCIK        string
	scanTicker     string
	scanFilingType string
	scanFilingDate string
)

func init() {
	scanCmd.Flags().BoolVar(&scanCached, "cached", false, "Treat arguments as cached accession numbers")
	scanCmd.Flags().StringVar(&scanCompany, "company", "", "Filer company name")
	scanCmd.Flags().StringVar(&scanCIK, "cik", "", "Filer CIK")
	scanCmd.Flags().StringVar(&scanTicker, "ticker", "", "Filer ticker symbol")
	scanCmd.Flags().StringVar(&scanFilingType, "filing-type", "", "Form type (e.g. \"DEF 14A\")")
	scanCmd.Flags().StringVar(&scanFilingDate, "filing-date", "", "Filing date (YYYY-MM-DD)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	ctx := context.Background()

	docs := make([]domain.FilingMetadata, 0, len(args))
	contents := make(map[string]string)

	for _, arg := range args {
		meta := scanMetadata(arg)
		if !scanCached {
			data, err := os.ReadFile(arg)
			if err != nil {
				return fmt.Errorf("reading %s: %w", arg, err)
			}
			contents[meta.AccessionNo] = string(data)
		}
		docs = append(docs, meta)
	}

	summary := pipelineService.ProcessBatch(ctx, docs, contents)
	printSummary(cmd, summary)

	if summary.Processed == 0 && summary.Skipped > 0 {
		return errors.New("no documents processed")
	}
	return nil
}

// scanMetadata builds document metadata from an argument and the shared
// metadata flags. File paths are reduced to their base name so repeated
// scans of the same file hit the same cache entry.
func scanMetadata(arg string) domain.FilingMetadata {
	ref := arg
	if !scanCached {
		ref = strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
	}
	return domain.FilingMetadata{
		AccessionNo: ref,
		CompanyName: scanCompany,
		CompanyCIK:  scanCIK,
		Ticker:      scanTicker,
		FilingType:  scanFilingType,
		FilingDate:  scanFilingDate,
	}
}

func printSummary(cmd *cobra.Command, s domain.BatchSummary) {
	cmd.Printf("Processed: %d\n", s.Processed)
	cmd.Printf("Skipped:   %d\n", s.Skipped)
	cmd.Printf("Claims:    %d\n", s.Claims)

	if len(s.SkipReasons) == 0 {
		return
	}

	refs := make([]string, 0, len(s.SkipReasons))
	for ref := range s.SkipReasons {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	cmd.Println()
	for _, ref := range refs {
		cmd.Printf("  %s: %s\n", ref, s.SkipReasons[ref])
	}
}
