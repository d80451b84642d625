package main

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/saha-group/leads-cli/internal/geo"
	"github.com/saha-group/leads-cli/pkg/ekap"
)

var (
	procText     string
	procPage     int
	procYear     int
	procDTNo     string
	procType     int
	procStatus   int
	procEPrice   bool
	procStart    string
	procEnd      string
	procProvince string
	procDetail   string
	procAuth     string
)

var procurementsCmd = &cobra.Command{
	Use:   "procurements",
	Short: "Search direct procurements (doğrudan temin) on EKAP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("tenders"); err != nil {
			return err
		}

		client := ekap.NewClient(geo.NewRegistry(),
			ekap.WithBaseURLs(cfg.EKAP.BaseURL, cfg.EKAP.LegacyURL),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		// Tokens from a previous search fetch the full record instead.
		if procDetail != "" || procAuth != "" {
			detail, err := client.GetProcurementDetail(cmd.Context(), procDetail, procAuth)
			if err != nil {
				return eris.Wrap(err, "direct procurement detail")
			}
			return enc.Encode(detail)
		}

		query := ekap.ProcurementQuery{
			SearchText: procText,
			PageIndex:  procPage,
			Year:       procYear,
			DTNo:       procDTNo,
			DTType:     procType,
			StatusID:   procStatus,
			DateStart:  procStart,
			DateEnd:    procEnd,
		}
		if plate, err := strconv.Atoi(procProvince); err == nil {
			query.ProvincePlate = plate
		} else {
			query.ProvinceName = procProvince
		}
		if cmd.Flags().Changed("e-price") {
			v := procEPrice
			query.EPriceOffer = &v
		}

		list, err := client.SearchDirectProcurements(cmd.Context(), query)
		if err != nil {
			return eris.Wrap(err, "direct procurement search")
		}
		return enc.Encode(list)
	},
}

func init() {
	procurementsCmd.Flags().StringVar(&procText, "text", "", "free-text search")
	procurementsCmd.Flags().IntVar(&procPage, "page", 1, "result page, 1-based")
	procurementsCmd.Flags().IntVar(&procYear, "year", 0, "DT year, two- or four-digit")
	procurementsCmd.Flags().StringVar(&procDTNo, "dt-no", "", "combined DT number, e.g. 25DT1493794")
	procurementsCmd.Flags().IntVar(&procType, "type", 0, "1 Mal, 2 Hizmet, 3 Yapım, 4 Danışmanlık")
	procurementsCmd.Flags().IntVar(&procStatus, "status", 0, "status code")
	procurementsCmd.Flags().BoolVar(&procEPrice, "e-price", false, "only electronic price offers")
	procurementsCmd.Flags().StringVar(&procStart, "date-start", "", "date start, YYYY-MM-DD")
	procurementsCmd.Flags().StringVar(&procEnd, "date-end", "", "date end, YYYY-MM-DD")
	procurementsCmd.Flags().StringVar(&procProvince, "province", "", "province name or plate")
	procurementsCmd.Flags().StringVar(&procDetail, "detail-token", "", "detail token from a search result")
	procurementsCmd.Flags().StringVar(&procAuth, "authority-token", "", "authority token from a search result")
	rootCmd.AddCommand(procurementsCmd)
}
