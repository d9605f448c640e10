package main

import (
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/guid-writer/internal/handler"
	"github.com/angeloszaimis/guid-writer/internal/httpserver"
	"github.com/angeloszaimis/guid-writer/internal/metrics"
)

// setupRouter serves local mode. Routing between health and the write path
// stays inside the handler, as it does behind API Gateway.
func setupRouter(h *handler.Handler, metricsCollector *metrics.Collector, log *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/", httpserver.InvocationHandler(h, log))
	mux.HandleFunc("/metrics", metricsCollector.Handler())

	return mux
}
