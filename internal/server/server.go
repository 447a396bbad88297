// Package server exposes the reverse-geocoding service over HTTP: the
// geocode endpoint for the booking front end, the lookup-log endpoint for
// operators, and the health/metrics endpoints for monitoring.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/UnknownOlympus/gazetteer/internal/models"
	"github.com/UnknownOlympus/gazetteer/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Geocoder resolves a coordinate pair into a merged address. It never
// fails: degraded outcomes are reported through the result itself.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) *models.GeocodingResult
}

// Pinger reports backend connectivity for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires the HTTP handlers to the geocoding service and its
// collaborators. The repo and pinger may be nil when the lookup log is
// disabled.
type Server struct {
	log      *slog.Logger
	geocoder Geocoder
	repo     repository.Interface
	pinger   Pinger
}

// geocodeRequest is the inbound payload for the geocode endpoint. Pointers
// distinguish an absent coordinate from a legitimate zero.
type geocodeRequest struct {
	Lat *float64 `json:"lat" binding:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" binding:"required,gte=-180,lte=180"`
}

// NewServer creates a Server for the given collaborators.
func NewServer(log *slog.Logger, geocoder Geocoder, repo repository.Interface, pinger Pinger) *Server {
	return &Server{log: log, geocoder: geocoder, repo: repo, pinger: pinger}
}

// Router assembles the gin engine with middleware and all routes. The
// metrics endpoint serves the given registry.
func (s *Server) Router(env string, reg *prometheus.Registry) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(s.log))

	api := router.Group("/api")
	api.POST("/geocode", s.handleGeocode)
	if s.repo != nil {
		api.GET("/lookups", s.handleLookups)
	}

	router.GET("/healthz", s.handleHealthz)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	return router
}

// handleGeocode resolves the posted coordinates into an address. Missing or
// out-of-range coordinates are the only hard failure the endpoint surfaces;
// everything downstream degrades to a low-confidence result.
func (s *Server) handleGeocode(c *gin.Context) {
	var req geocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log.WarnContext(c.Request.Context(), "Rejected geocode request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid coordinates"})
		return
	}

	result := s.geocoder.ReverseGeocode(c.Request.Context(), *req.Lat, *req.Lng)
	c.JSON(http.StatusOK, result)
}

// handleLookups returns the most recent entries of the lookup log.
func (s *Server) handleLookups(c *gin.Context) {
	const defaultLimit = 20
	const maxLimit = 200

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	lookups, err := s.repo.RecentLookups(c.Request.Context(), limit)
	if err != nil {
		s.log.ErrorContext(c.Request.Context(), "Failed to fetch recent lookups", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch lookups"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lookups": lookups})
}

// handleHealthz reports service health, including database connectivity
// when the lookup log is enabled.
func (s *Server) handleHealthz(c *gin.Context) {
	ctx := c.Request.Context()
	s.log.DebugContext(ctx, "Performing health checks...")

	if s.pinger != nil {
		if err := s.pinger.Ping(ctx); err != nil {
			s.log.ErrorContext(ctx, "Health check failed", "error", err)
			c.String(http.StatusServiceUnavailable, "DB ping failed")
			return
		}
	}

	c.String(http.StatusOK, "OK")
}
