// Package metrics provides Prometheus metrics and the metrics HTTP endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Counter metrics
var (
	MeetingsStoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "raceday",
		Name:      "meetings_stored_total",
		Help:      "Total number of meetings analyzed and stored",
	})
	MeetingsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "raceday",
		Name:      "meetings_deleted_total",
		Help:      "Total number of meetings deleted",
	})
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "raceday",
		Name:      "uploads_total",
		Help:      "Total number of CSV upload requests by outcome",
	}, []string{"status"}) // ok, analysis_failed, storage_failed, rejected
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "raceday",
		Name:      "logins_total",
		Help:      "Total number of login attempts by outcome",
	}, []string{"status"}) // ok, denied
)

// Histogram metrics
var (
	UploadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "raceday",
		Name:      "upload_duration_seconds",
		Help:      "End to end upload request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// Serve starts the metrics HTTP endpoint in a background goroutine and
// returns the server so callers can shut it down.
func Serve(addr, path string, logger *logrus.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.WithField("addr", addr).Info("Metrics endpoint listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Metrics endpoint failed")
		}
	}()

	return server
}
