package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/saha-group/leads-cli/internal/export"
	"github.com/saha-group/leads-cli/internal/model"
	"github.com/saha-group/leads-cli/internal/pipeline"
	"github.com/saha-group/leads-cli/pkg/sheets"
)

var (
	leadsKeyword        string
	leadsLocation       string
	leadsRadius         int
	leadsLimit          int
	leadsLanguage       string
	leadsNoDetails      bool
	leadsMinRating      float64
	leadsMinReviews     int
	leadsTypes          []string
	leadsExcludeTypes   []string
	leadsRequireContact bool
	leadsOpenNow        bool
	leadsStatuses       []string
	leadsDedupeBy       string
	leadsFormat         string
	leadsColumns        []string
	leadsSheets         bool
	leadsXLSX           string
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Search business leads for a keyword and location",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("leads"); err != nil {
			return err
		}

		env := initPipeline()

		query := model.Query{
			Keyword:      leadsKeyword,
			LocationText: leadsLocation,
			RadiusMeters: leadsRadius,
			Limit:        leadsLimit,
			Language:     leadsLanguage,
		}
		if query.Language == "" {
			query.Language = cfg.Google.Language
		}
		filters := buildFilters(cmd)

		resp, err := env.pipeline.Run(cmd.Context(), query, filters, !leadsNoDetails)
		if err != nil {
			return eris.Wrap(err, "lead search")
		}

		if leadsSheets {
			resp.Sheets = exportToSheets(cmd.Context(), env, resp)
		}
		if leadsXLSX != "" {
			if err := exportToXLSX(env, resp, leadsXLSX); err != nil {
				return err
			}
		}

		return writeLeadsOutput(resp)
	},
}

// buildFilters translates the flag set into filter predicates. Pointer
// fields are only set when the flag was given so that zero values stay
// meaningful.
func buildFilters(cmd *cobra.Command) model.Filters {
	filters := model.Filters{
		TypesInclude:          leadsTypes,
		TypesExclude:          leadsExcludeTypes,
		RequirePhoneOrWebsite: leadsRequireContact,
		BusinessStatusIn:      leadsStatuses,
		DedupeBy:              model.DedupeKey(leadsDedupeBy),
	}
	if cmd.Flags().Changed("min-rating") {
		v := leadsMinRating
		filters.MinRating = &v
	}
	if cmd.Flags().Changed("min-reviews") {
		v := leadsMinReviews
		filters.MinUserRatingsTotal = &v
	}
	if cmd.Flags().Changed("open-now") {
		v := leadsOpenNow
		filters.OnlyOpenNow = &v
	}
	return filters
}

// exportToSheets appends the leads to the configured spreadsheet tab. The
// outcome is reported as an annotation; a failed export never fails the
// search.
func exportToSheets(ctx context.Context, env *appEnv, resp *model.Response, opts ...option.ClientOption) *model.SheetsResult {
	annotate := func(err error) *model.SheetsResult {
		zap.L().Warn("sheets export failed", zap.Error(err))
		return &model.SheetsResult{OK: false, Error: err.Error()}
	}

	if err := cfg.Validate("sheets"); err != nil {
		return annotate(err)
	}

	appender, err := sheets.NewAppender(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName, cfg.Sheets.CredentialsFile, opts...)
	if err != nil {
		return annotate(err)
	}

	categorizer := export.NewCategorizer()
	if err := categorizer.LoadOverrides(cfg.Export.CategoryFile); err != nil {
		return annotate(err)
	}

	if err := appender.EnsureHeader(ctx, export.SheetHeader); err != nil {
		return annotate(err)
	}

	rows := export.Rows(resp.Leads, env.registry, categorizer, resp.Query.Keyword, resp.Query.LocationText)
	result, err := appender.AppendRows(ctx, rows)
	if err != nil {
		return annotate(err)
	}

	zap.L().Info("sheets export complete",
		zap.String("spreadsheet_id", result.SpreadsheetID),
		zap.Int64("updated_rows", result.UpdatedRows),
	)
	return &model.SheetsResult{
		OK:            true,
		SpreadsheetID: result.SpreadsheetID,
		SheetName:     result.SheetName,
		UpdatedRange:  result.UpdatedRange,
		UpdatedRows:   int(result.UpdatedRows),
		RowsSent:      len(rows),
	}
}

// exportToXLSX writes the leads as a local workbook.
func exportToXLSX(env *appEnv, resp *model.Response, path string) error {
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Export.OutputDir, path)
	}

	categorizer := export.NewCategorizer()
	if err := categorizer.LoadOverrides(cfg.Export.CategoryFile); err != nil {
		return err
	}

	rows := export.Rows(resp.Leads, env.registry, categorizer, resp.Query.Keyword, resp.Query.LocationText)
	if err := export.WriteXLSX(path, cfg.Sheets.SheetName, export.SheetHeader, rows); err != nil {
		return err
	}

	zap.L().Info("workbook written", zap.String("path", path), zap.Int("rows", len(rows)))
	return nil
}

func writeLeadsOutput(resp *model.Response) error {
	switch leadsFormat {
	case "csv":
		text, _, err := pipeline.RenderCSV(resp.Leads, leadsColumns)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(os.Stdout, text)
		return err
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	default:
		return eris.Errorf("unknown output format %q", leadsFormat)
	}
}

func init() {
	leadsCmd.Flags().StringVar(&leadsKeyword, "keyword", "", "search keyword (required)")
	leadsCmd.Flags().StringVar(&leadsLocation, "location", "", "location text, e.g. \"Samsun\" (required)")
	leadsCmd.Flags().IntVar(&leadsRadius, "radius", 5000, "search radius in meters")
	leadsCmd.Flags().IntVar(&leadsLimit, "limit", 20, fmt.Sprintf("max results, clamped to [%d,%d]", pipeline.MinLimit, pipeline.MaxLimit))
	leadsCmd.Flags().StringVar(&leadsLanguage, "language", "", "result language (default from config)")
	leadsCmd.Flags().BoolVar(&leadsNoDetails, "no-details", false, "skip the per-place detail lookups")
	leadsCmd.Flags().Float64Var(&leadsMinRating, "min-rating", 0, "minimum rating")
	leadsCmd.Flags().IntVar(&leadsMinReviews, "min-reviews", 0, "minimum review count")
	leadsCmd.Flags().StringSliceVar(&leadsTypes, "types", nil, "keep only these place types")
	leadsCmd.Flags().StringSliceVar(&leadsExcludeTypes, "exclude-types", nil, "drop these place types")
	leadsCmd.Flags().BoolVar(&leadsRequireContact, "require-contact", false, "keep only leads with a phone or website")
	leadsCmd.Flags().BoolVar(&leadsOpenNow, "open-now", false, "keep only currently open places")
	leadsCmd.Flags().StringSliceVar(&leadsStatuses, "business-status", nil, "keep only these business statuses")
	leadsCmd.Flags().StringVar(&leadsDedupeBy, "dedupe-by", string(model.DedupeByPlaceID), "dedupe key: place_id or name_address")
	leadsCmd.Flags().StringVar(&leadsFormat, "format", "json", "output format: json or csv")
	leadsCmd.Flags().StringSliceVar(&leadsColumns, "columns", nil, "csv column selection")
	leadsCmd.Flags().BoolVar(&leadsSheets, "sheets", false, "append results to the configured Google Sheet")
	leadsCmd.Flags().StringVar(&leadsXLSX, "xlsx", "", "write results to an XLSX workbook at this path")
	_ = leadsCmd.MarkFlagRequired("keyword")
	_ = leadsCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(leadsCmd)
}
