// Package cli provides the cobra command tree for the affilscan tool.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/openroster/affilscan/internal/core/ports/driven"
	"github.com/openroster/affilscan/internal/core/ports/driving"
	"github.com/openroster/affilscan/internal/logger"
)

var version = "0.1.0"

// Collaborators are injected once by Execute; commands check for nil so a
// partially wired binary fails with a message instead of a panic.
var (
	pipelineService driving.PipelineService
	filingCache     driven.FilingCache
	configStore     driven.ConfigStore
	newFetcher      func() (driven.FilingFetcher, error)
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "affilscan",
	Short: "Scan regulatory filings for institution affiliations",
	Long: `affilscan scans cached regulatory filings for mentions of a configured
institution, extracts person-to-institution affiliation claims, and
reconciles them into a persistent roster.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose logging to stderr")
}

// Dependencies carries the wired services the commands operate on.
type Dependencies struct {
	Pipeline driving.PipelineService
	Cache    driven.FilingCache
	Config   driven.ConfigStore

	// NewFetcher builds the archive fetcher on demand. Construction can
	// fail when no contact identity is configured, and only the fetch
	// command should pay for that.
	NewFetcher func() (driven.FilingFetcher, error)
}

// Execute wires the dependencies and runs the command tree.
func Execute(deps Dependencies) error {
	pipelineService = deps.Pipeline
	filingCache = deps.Cache
	configStore = deps.Config
	newFetcher = deps.NewFetcher
	return rootCmd.Execute()
}
