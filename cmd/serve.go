package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kessan-lab/tanshin-cli/internal/analyze"
	"github.com/kessan-lab/tanshin-cli/internal/model"
	"github.com/kessan-lab/tanshin-cli/internal/store"
)

// maxUploadBytes caps ad-hoc archive uploads. TDnet archives run well under
// 10 MB; anything larger is not a filing.
const maxUploadBytes = 64 << 20

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the filings and analyses API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		an, _, err := newAnalyzer(0)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st, an),
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

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(st store.Store, an *analyze.Analyzer) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", handleAnalyzeUpload(an))
		r.Get("/filings", handleListFilings(st))
		r.Route("/filings/{id}", func(r chi.Router) {
			r.Get("/", handleGetFiling(st))
			r.Get("/analysis", handleGetAnalysis(st))
			r.Post("/analyze", handleAnalyzeFiling(st, an))
		})
	})

	return r
}

// handleListFilings filters on code, status, category, since, until, limit
// and offset query parameters. Dates are inclusive days, YYYY-MM-DD.
func handleListFilings(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := store.FilingFilter{
			Code:     q.Get("code"),
			Status:   model.FilingStatus(q.Get("status")),
			Category: q.Get("category"),
		}
		if filter.Status != "" && !filter.Status.Valid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", filter.Status))
			return
		}
		if v := q.Get("since"); v != "" {
			day, err := parseDay(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid since date")
				return
			}
			filter.Since = day
		}
		if v := q.Get("until"); v != "" {
			day, err := parseDay(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid until date")
				return
			}
			filter.Until = day.AddDate(0, 0, 1)
		}
		var badInt bool
		filter.Limit = intParam(q.Get("limit"), &badInt)
		filter.Offset = intParam(q.Get("offset"), &badInt)
		if badInt {
			writeError(w, http.StatusBadRequest, "limit and offset must be non-negative integers")
			return
		}

		filings, err := st.ListFilings(r.Context(), filter)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"filings": filings,
			"count":   len(filings),
		})
	}
}

func handleGetFiling(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filing, err := st.GetFiling(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, filing)
	}
}

func handleGetAnalysis(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		analysis, err := st.GetAnalysis(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, analysis)
	}
}

// handleAnalyzeFiling re-runs the engine against the stored archive and
// persists the fresh result.
func handleAnalyzeFiling(st store.Store, an *analyze.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := chi.URLParam(r, "id")

		filing, err := st.GetFiling(ctx, id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if filing.ZipPath == "" {
			writeError(w, http.StatusConflict, "filing archive not downloaded")
			return
		}

		res, err := an.AnalyzeZip(filing.ZipPath)
		if err != nil {
			if serr := st.UpdateFilingStatus(ctx, id, model.FilingStatusFailed); serr != nil {
				zap.L().Error("mark filing failed", zap.String("filing", id), zap.Error(serr))
			}
			zap.L().Warn("analysis failed", zap.String("filing", id), zap.Error(err))
			writeError(w, http.StatusUnprocessableEntity, "analysis failed")
			return
		}

		rec, err := res.Record(filing.ID)
		if err != nil {
			zap.L().Error("encode analysis", zap.String("filing", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if err := st.SaveAnalysis(ctx, rec); err != nil {
			writeStoreError(w, err)
			return
		}
		if err := st.UpdateFilingStatus(ctx, id, model.FilingStatusAnalyzed); err != nil {
			zap.L().Error("mark filing analyzed", zap.String("filing", id), zap.Error(err))
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// handleAnalyzeUpload analyzes a raw archive posted in the request body
// without persisting anything.
func handleAnalyzeUpload(an *analyze.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "read request body")
			return
		}
		if len(data) == 0 {
			writeError(w, http.StatusBadRequest, "empty request body")
			return
		}
		res, err := an.AnalyzeBytes(data)
		if err != nil {
			zap.L().Warn("upload analysis failed", zap.Error(err))
			writeError(w, http.StatusUnprocessableEntity, "analysis failed")
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func intParam(v string, bad *bool) int {
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		*bad = true
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeStoreError(w http.ResponseWriter, err error) {
	if eris.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	zap.L().Error("store request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
