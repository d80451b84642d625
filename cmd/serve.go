package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saha-group/leads-cli/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP tool server for lead searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env := initPipeline()

		mux := http.NewServeMux()

		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		mux.HandleFunc("POST /tools/find-leads", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Keyword        string        `json:"keyword"`
				Location       string        `json:"location"`
				RadiusMeters   int           `json:"radius_meters"`
				Limit          int           `json:"limit"`
				Language       string        `json:"language"`
				IncludeDetails *bool         `json:"include_details"`
				Filters        model.Filters `json:"filters"`
				Sheets         bool          `json:"sheets"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if req.Keyword == "" || req.Location == "" {
				writeError(w, http.StatusBadRequest, "keyword and location are required")
				return
			}

			query := model.Query{
				Keyword:      req.Keyword,
				LocationText: req.Location,
				RadiusMeters: req.RadiusMeters,
				Limit:        req.Limit,
				Language:     req.Language,
			}
			if query.Language == "" {
				query.Language = cfg.Google.Language
			}

			includeDetails := true
			if req.IncludeDetails != nil {
				includeDetails = *req.IncludeDetails
			}

			resp, err := env.pipeline.Run(r.Context(), query, req.Filters, includeDetails)
			if err != nil {
				zap.L().Error("lead search failed",
					zap.String("keyword", req.Keyword),
					zap.Error(err),
				)
				writeError(w, http.StatusBadGateway, err.Error())
				return
			}

			// A configured spreadsheet triggers a best-effort auto export.
			if req.Sheets || cfg.Sheets.SpreadsheetID != "" {
				resp.Sheets = exportToSheets(r.Context(), env, resp)
				resp.Sheets.AutoExport = !req.Sheets
			}

			writeJSON(w, http.StatusOK, resp)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: true, Message: msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
