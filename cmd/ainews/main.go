package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/cyrus-tt/ainews/internal/app"
	"github.com/cyrus-tt/ainews/internal/logger"
	"github.com/cyrus-tt/ainews/internal/metrics"
)

func main() {
	logger.Init()

	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoringServer()
	}

	if err := app.Run(context.Background()); err != nil {
		metrics.Global.SetError(err.Error())
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// startMonitoringServer exposes health and metrics endpoints for cron
// wrappers that probe the process while it runs.
func startMonitoringServer() {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		stats := metrics.Global.GetStats()
		healthy, _ := stats["is_healthy"].(bool)
		if healthy {
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "OK")
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintln(w, "UNHEALTHY")
	})

	http.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(metrics.Global.GetStats())
	})

	slog.Info("monitoring server listening", "port", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		slog.Error("monitoring server failed", "error", err)
	}
}
