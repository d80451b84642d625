package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/saha-group/leads-cli/pkg/ted"
)

var (
	tedText      string
	tedCountries []string
	tedLimit     int
	tedPage      int
	tedDaysBack  int
	tedScope     string
	tedAPIKey    string
)

var tedCmd = &cobra.Command{
	Use:   "ted",
	Short: "Search EU tender notices on TED",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("ted"); err != nil {
			return err
		}

		client := ted.NewClient(tedAPIKey, ted.WithBaseURL(cfg.TED.BaseURL))

		limit := tedLimit
		if limit == 0 {
			limit = cfg.TED.PageSize
		}

		query := ted.NoticeQuery{
			SearchText:   tedText,
			CountryCodes: tedCountries,
			Limit:        limit,
			Page:         tedPage,
			DaysBack:     tedDaysBack,
			Scope:        tedScope,
		}

		result, err := client.Search(cmd.Context(), query)
		if err != nil {
			return eris.Wrap(err, "ted search")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	tedCmd.Flags().StringVar(&tedText, "text", "", "full-text search, UAV terms are expanded with synonyms")
	tedCmd.Flags().StringSliceVar(&tedCountries, "countries", nil, "place-of-performance country codes, ISO2 or ISO3")
	tedCmd.Flags().IntVar(&tedLimit, "limit", 0, "results per page (default from config)")
	tedCmd.Flags().IntVar(&tedPage, "page", 1, "result page, 1-based")
	tedCmd.Flags().IntVar(&tedDaysBack, "days-back", 30, "publication date window in days")
	tedCmd.Flags().StringVar(&tedScope, "scope", ted.ScopeActive, "notice scope: ACTIVE, LATEST or ALL")
	tedCmd.Flags().StringVar(&tedAPIKey, "api-key", "", "TED API key (optional)")
	rootCmd.AddCommand(tedCmd)
}
