package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trialmap/internal/export"
	"github.com/sells-group/trialmap/internal/render"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the rendered map and dataset over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rows, raceKeys, err := export.ReadDataset(cfg.Output.DatasetCSV)
		if err != nil {
			return err
		}
		locations := render.GroupLocations(rows)
		fc := render.FeatureCollection(locations)

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, map[string]string{"status": "ok"})
		})
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.ServeFile(w, req, cfg.Output.MapHTML)
		})
		r.Get("/api/locations", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, locations)
		})
		r.Get("/api/race-keys", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, raceKeys)
		})
		r.Get("/api/geojson", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/geo+json")
			data, err := fc.MarshalJSON()
			if err != nil {
				http.Error(w, `{"error":"encode geojson"}`, http.StatusInternalServerError)
				return
			}
			w.Write(data) //nolint:errcheck
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.Int("locations", len(locations)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
