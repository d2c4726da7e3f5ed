package cli

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openroster/affilscan/internal/core/domain"
	"github.com/openroster/affilscan/internal/logger"
)

var exportCmd = &cobra.Command{
	Use:   "export [accession...]",
	Short: "Export extracted claims as CSV",
	Long: `Re-runs extraction over cached documents and writes the deduplicated
claims as CSV rows. The roster is not modified.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	out := io.Writer(cmd.OutOrStdout())
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", exportOutput, err)
		}
		defer f.Close()
		out = f
	}

	ctx := context.Background()
	w := csv.NewWriter(out)

	header := []string{
		"person_name", "affiliation_type", "confidence", "evidence_context",
		"ticker", "company_cik", "filing_type", "filing_date", "accession_no",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	var rows int
	for _, accession := range args {
		claims, err := pipelineService.ExtractCached(ctx, domain.FilingMetadata{AccessionNo: accession})
		if err != nil {
			logger.Warn("skipping %s: %v", accession, err)
			continue
		}

		for _, claim := range claims {
			rec := domain.NewExportRecord(claim)
			row := []string{
				rec.PersonName,
				string(rec.AffiliationType),
				string(rec.Confidence),
				rec.EvidenceContext,
				rec.Ticker,
				rec.CompanyCIK,
				rec.FilingType,
				rec.FilingDate,
				rec.AccessionNo,
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("writing row: %w", err)
			}
			rows++
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	if exportOutput != "" {
		cmd.Printf("Wrote %d claims to %s\n", rows, exportOutput)
	}
	return nil
}
