// Package server exposes the marching core over HTTP: one-shot march and
// fan queries, scene listings, and a websocket stream of animated sweep
// frames.
package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/btbonval/raymarch/internal/logging"
	"github.com/btbonval/raymarch/pkg/core"
	"github.com/btbonval/raymarch/pkg/marcher"
	"github.com/btbonval/raymarch/pkg/scene"
)

// Server handles web requests for the ray marcher
type Server struct {
	addr   string
	logger *logging.Logger
}

// New creates a viz server bound to addr
func New(addr string, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.New(logging.InfoLevel, os.Stderr)
	}
	return &Server{addr: addr, logger: logger}
}

// Router builds the route table. Split from ListenAndServe so tests can
// drive the handlers through httptest.
func (s *Server) Router() *mux.Router {
	accessLog := os.Stdout
	router := mux.NewRouter()

	router.Handle("/api/health", handlers.CombinedLoggingHandler(accessLog,
		http.HandlerFunc(s.handleHealth),
	)).Methods("GET")

	router.Handle("/api/scenes", handlers.CombinedLoggingHandler(accessLog,
		http.HandlerFunc(s.handleScenes),
	)).Methods("GET")

	router.Handle("/api/scene-config", handlers.CombinedLoggingHandler(accessLog,
		http.HandlerFunc(s.handleSceneConfig),
	)).Methods("GET")

	router.Handle("/api/march", handlers.CombinedLoggingHandler(accessLog,
		http.HandlerFunc(s.handleMarch),
	)).Methods("GET")

	router.Handle("/api/fan", handlers.CombinedLoggingHandler(accessLog,
		http.HandlerFunc(s.handleFan),
	)).Methods("GET")

	router.Handle("/live/ws", http.HandlerFunc(s.handleLive)).Methods("GET")

	return router
}

// ListenAndServe starts the web server
func (s *Server) ListenAndServe() error {
	s.logger.Info("viz server listening", logging.String("addr", s.addr))
	return http.ListenAndServe(s.addr, s.Router())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the available scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.ListAll())
}

// handleSceneConfig returns a scene's snapshot and march defaults together
// with the parameter limits the march endpoints enforce
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sc := scene.Create(sceneParam(r.URL.Query()))
	if sc == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown scene"})
		return
	}

	response := map[string]any{
		"scene": sc,
		"defaults": map[string]any{
			"epsilon":  sc.MarchConfig.Epsilon,
			"maxSteps": sc.MarchConfig.MaxSteps,
		},
		"limits": map[string]any{
			"epsilon":  map[string]float64{"min": 1e-6, "max": 10},
			"maxSteps": map[string]int{"min": 1, "max": 10000},
			"rays":     map[string]int{"min": 1, "max": 1024},
			"fps":      map[string]int{"min": 1, "max": 60},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// MarchResponse is the reply to a one-shot march request
type MarchResponse struct {
	Scene   string         `json:"scene"`
	SceneID string         `json:"sceneId"`
	Origin  core.Vec2      `json:"origin"`
	Angle   float64        `json:"angle"` // Radians
	Result  marcher.Result `json:"result"`
}

// handleMarch casts a single ray and returns the sample chain
func (s *Server) handleMarch(w http.ResponseWriter, r *http.Request) {
	req, err := parseMarchRequest(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	f, err := req.scene.Field()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	result, err := marcher.March(req.origin, core.FromAngle(req.angle), f, req.config)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, MarchResponse{
		Scene:   req.scene.Name,
		SceneID: req.scene.ID,
		Origin:  req.origin,
		Angle:   req.angle,
		Result:  result,
	})
}

// FanResponse is the reply to a fan request: one result per ray, ordered
// by angle
type FanResponse struct {
	Scene   string           `json:"scene"`
	SceneID string           `json:"sceneId"`
	Origin  core.Vec2        `json:"origin"`
	Angles  []float64        `json:"angles"`
	Results []marcher.Result `json:"results"`
}

// handleFan casts many rays from one origin across the full circle
func (s *Server) handleFan(w http.ResponseWriter, r *http.Request) {
	req, err := parseMarchRequest(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rays, err := parseIntParam(r.URL.Query(), "rays", 64, 1, 1024)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	f, err := req.scene.Field()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	results, err := marcher.MarchFan(f, req.config, req.origin, 0, 2*math.Pi, rays, 0)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, FanResponse{
		Scene:   req.scene.Name,
		SceneID: req.scene.ID,
		Origin:  req.origin,
		Angles:  marcher.FanAngles(0, 2*math.Pi, rays),
		Results: results,
	})
}

// marchRequest is a parsed and validated march query
type marchRequest struct {
	scene  *scene.Scene
	origin core.Vec2
	angle  float64
	config marcher.Config
}

// parseMarchRequest parses the common parameters of /api/march and
// /api/fan. The origin defaults to the scene's suggested start and the
// marching knobs default to the scene's config.
func parseMarchRequest(values url.Values) (*marchRequest, error) {
	sc := scene.Create(sceneParam(values))
	if sc == nil {
		return nil, fmt.Errorf("unknown scene: %s", sceneParam(values))
	}

	origin := sc.Start
	var err error
	if origin.X, err = parseFloatParam(values, "x", origin.X, sc.Bounds.Min.X-1e6, sc.Bounds.Max.X+1e6); err != nil {
		return nil, err
	}
	if origin.Y, err = parseFloatParam(values, "y", origin.Y, sc.Bounds.Min.Y-1e6, sc.Bounds.Max.Y+1e6); err != nil {
		return nil, err
	}

	angleDegrees, err := parseFloatParam(values, "angle", 0, -360, 360)
	if err != nil {
		return nil, err
	}

	config := sc.MarchConfig
	if config.Epsilon, err = parseFloatParam(values, "epsilon", config.Epsilon, 1e-6, 10); err != nil {
		return nil, err
	}
	if config.MaxSteps, err = parseIntParam(values, "maxSteps", config.MaxSteps, 1, 10000); err != nil {
		return nil, err
	}

	return &marchRequest{
		scene:  sc,
		origin: origin,
		angle:  angleDegrees * math.Pi / 180,
		config: config,
	}, nil
}

func sceneParam(values url.Values) string {
	if name := values.Get("scene"); name != "" {
		return name
	}
	return "single"
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
