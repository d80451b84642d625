package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/saha-group/leads-cli/internal/geo"
	"github.com/saha-group/leads-cli/pkg/ekap"
)

var (
	tendersText       string
	tendersSearchType string
	tendersOrderBy    string
	tendersSortOrder  string
	tendersIKNYear    int
	tendersIKNNumber  int
	tendersTypes      []int
	tendersMethods    []int
	tendersStatuses   []int
	tendersOKAS       []string
	tendersProvinces  []string
	tendersDateStart  string
	tendersDateEnd    string
	tendersPage       int
	tendersPageSize   int
)

var tendersCmd = &cobra.Command{
	Use:   "tenders",
	Short: "Search public tenders on EKAP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("tenders"); err != nil {
			return err
		}

		client := ekap.NewClient(geo.NewRegistry(),
			ekap.WithBaseURLs(cfg.EKAP.BaseURL, cfg.EKAP.LegacyURL),
		)

		page := tendersPage
		if page < 1 {
			page = 1
		}
		pageSize := tendersPageSize
		if pageSize <= 0 {
			pageSize = cfg.EKAP.PageRow
		}

		query := ekap.TenderQuery{
			SearchText:      tendersText,
			SearchType:      tendersSearchType,
			OrderBy:         tendersOrderBy,
			SortOrder:       tendersSortOrder,
			IKNYear:         tendersIKNYear,
			IKNNumber:       tendersIKNNumber,
			TenderTypes:     tendersTypes,
			TenderMethods:   tendersMethods,
			Statuses:        tendersStatuses,
			OKASCodes:       tendersOKAS,
			ProvinceNames:   tendersProvinces,
			TenderDateStart: tendersDateStart,
			TenderDateEnd:   tendersDateEnd,
			Skip:            (page - 1) * pageSize,
			Take:            pageSize,
		}

		list, err := client.SearchTenders(cmd.Context(), query)
		if err != nil {
			return eris.Wrap(err, "tender search")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	},
}

func init() {
	tendersCmd.Flags().StringVar(&tendersText, "text", "", "free-text search")
	tendersCmd.Flags().StringVar(&tendersSearchType, "search-type", "", "GirdigimGibi or TumKelimeler")
	tendersCmd.Flags().StringVar(&tendersOrderBy, "order-by", "", "ihaleTarihi, ihaleAdi or idareAdi")
	tendersCmd.Flags().StringVar(&tendersSortOrder, "sort", "", "asc or desc")
	tendersCmd.Flags().IntVar(&tendersIKNYear, "ikn-year", 0, "tender registration year")
	tendersCmd.Flags().IntVar(&tendersIKNNumber, "ikn-number", 0, "tender registration number")
	tendersCmd.Flags().IntSliceVar(&tendersTypes, "types", nil, "tender type codes")
	tendersCmd.Flags().IntSliceVar(&tendersMethods, "methods", nil, "tender method codes")
	tendersCmd.Flags().IntSliceVar(&tendersStatuses, "statuses", nil, "tender status codes")
	tendersCmd.Flags().StringSliceVar(&tendersOKAS, "okas", nil, "OKAS branch codes")
	tendersCmd.Flags().StringSliceVar(&tendersProvinces, "provinces", nil, "province names")
	tendersCmd.Flags().StringVar(&tendersDateStart, "date-start", "", "tender date start, YYYY-MM-DD")
	tendersCmd.Flags().StringVar(&tendersDateEnd, "date-end", "", "tender date end, YYYY-MM-DD")
	tendersCmd.Flags().IntVar(&tendersPage, "page", 1, "result page, 1-based")
	tendersCmd.Flags().IntVar(&tendersPageSize, "page-size", 0, "results per page (default from config)")
	rootCmd.AddCommand(tendersCmd)
}
