// Package server exposes report building over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
	"github.com/ademuri/ytm-wrapped/internal/artwork"
	"github.com/ademuri/ytm-wrapped/internal/export"
	"github.com/ademuri/ytm-wrapped/internal/logger"
	"github.com/ademuri/ytm-wrapped/internal/metrics"
	"github.com/ademuri/ytm-wrapped/internal/render"
)

// DefaultMaxBody bounds the size of an uploaded export.
const DefaultMaxBody = 256 << 20

type Server struct {
	Config  analysis.Config
	Workers int
	MaxBody int64

	// Artwork may be nil, in which case /artwork answers 404.
	Artwork artwork.Provider
	Metrics *metrics.Metrics
	Log     *logger.Logger

	mux    *http.ServeMux
	server *http.Server
}

func New(addr string, config analysis.Config, provider artwork.Provider, m *metrics.Metrics, log *logger.Logger) *Server {
	s := &Server{
		Config:  config,
		Workers: 1,
		MaxBody: DefaultMaxBody,
		Artwork: provider,
		Metrics: m,
		Log:     log,
		mux:     http.NewServeMux(),
	}

	s.mux.Handle("POST /wrapped", m.InstrumentHandler("wrapped", http.HandlerFunc(s.handleWrapped)))
	s.mux.Handle("GET /artwork", m.InstrumentHandler("artwork", http.HandlerFunc(s.handleArtwork)))
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.Handle("GET /metrics", m.Handler())

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.mux,
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s
}

func (s *Server) Handler() http.Handler              { return s.mux }
func (s *Server) Serve() error                       { return s.server.ListenAndServe() }
func (s *Server) Shutdown(ctx context.Context) error { return s.server.Shutdown(ctx) }

// handleWrapped builds a report from the export in the request body. The
// query may override year, top and minutesPerPlay.
func (s *Server) handleWrapped(w http.ResponseWriter, r *http.Request) {
	reqID := logger.RequestID(r)
	w.Header().Set(logger.RequestIDHeader, reqID)
	reqLog := s.Log.WithRequest(r, reqID).WithField("handler", "wrapped")

	config, err := s.configFor(r)
	if err != nil {
		reqLog.WithError(err).Warn("bad query")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.MaxBody)
	events, err := export.Load(r.Body)
	if err != nil {
		var malformed *export.MalformedInputError
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			reqLog.WithError(err).Warn("export too large")
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		case errors.As(err, &malformed):
			reqLog.WithError(err).Warn("malformed export")
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			reqLog.WithError(err).Error("reading export")
			http.Error(w, "reading export", http.StatusInternalServerError)
		}
		return
	}

	start := time.Now()
	report, stats, err := analysis.GenerateReportParallel(r.Context(), events, config, s.Workers)
	if err != nil {
		reqLog.WithError(err).Warn("build abandoned")
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	elapsed := time.Since(start)
	s.Metrics.ObserveReport(stats, elapsed.Seconds())
	reqLog.WithFields(logrus.Fields{
		"year":        report.Year,
		"events":      len(events),
		"plays":       report.TotalSongs,
		"duration_ms": elapsed.Milliseconds(),
	}).Info("report built")

	w.Header().Set("Content-Type", "application/json")
	if err := render.WriteJSON(w, report); err != nil {
		reqLog.WithError(err).Error("failed to write response")
	}
}

func (s *Server) configFor(r *http.Request) (analysis.Config, error) {
	config := s.Config
	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return config, fmt.Errorf("invalid year: %q", v)
		}
		config.TargetYear = year
	}
	if v := q.Get("top"); v != "" {
		top, err := strconv.Atoi(v)
		if err != nil {
			return config, fmt.Errorf("invalid top: %q", v)
		}
		config.TopN = top
	}
	if v := q.Get("minutesPerPlay"); v != "" {
		minutes, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return config, fmt.Errorf("invalid minutesPerPlay: %q", v)
		}
		config.MinutesPerPlay = minutes
	}
	return config, config.Validate()
}

type artworkResponse struct {
	Artist string `json:"artist"`
	Track  string `json:"track,omitempty"`
	URL    string `json:"url"`
	Found  bool   `json:"found"`
}

// handleArtwork answers with the picture for ?artist=, or for one of its
// tracks when ?track= is given. Misses answer with the fallback image.
func (s *Server) handleArtwork(w http.ResponseWriter, r *http.Request) {
	reqID := logger.RequestID(r)
	w.Header().Set(logger.RequestIDHeader, reqID)
	reqLog := s.Log.WithRequest(r, reqID).WithField("handler", "artwork")

	if s.Artwork == nil {
		http.Error(w, "artwork lookups are disabled", http.StatusNotFound)
		return
	}
	artist := r.URL.Query().Get("artist")
	if artist == "" {
		http.Error(w, "missing artist", http.StatusBadRequest)
		return
	}
	track := r.URL.Query().Get("track")

	var url string
	var err error
	if track == "" {
		url, err = s.Artwork.ArtistImage(r.Context(), artist)
	} else {
		url, err = s.Artwork.TrackImage(r.Context(), artist, track)
	}
	if err != nil {
		reqLog.WithError(err).WithField("artist", artist).Warn("artwork lookup failed")
		http.Error(w, "artwork lookup failed", http.StatusBadGateway)
		return
	}

	resp := artworkResponse{Artist: artist, Track: track, URL: url, Found: url != ""}
	if !resp.Found {
		resp.URL = artwork.FallbackImage
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		reqLog.WithError(err).Error("failed to write response")
	}
}
