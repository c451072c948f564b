// Package api serves the generation engine over HTTP.
// GET endpoints are public (read-only content and roster browsing).
// POST endpoints require a bearer token (generation control plane).
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kaelwren/npcforge/internal/config"
	"github.com/kaelwren/npcforge/internal/gen"
	"github.com/kaelwren/npcforge/internal/npc"
	"github.com/kaelwren/npcforge/internal/roster"
)

// Server serves the content set, the roster, and the generation endpoint.
type Server struct {
	Store    *config.Store
	Gen      *gen.Generator
	DB       *roster.DB
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	generateLimiter := NewRateLimiter(120, time.Minute)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/families", s.handleFamilies)
	mux.HandleFunc("/api/v1/variants", s.handleVariants)
	mux.HandleFunc("/api/v1/overlays", s.handleOverlays)
	mux.HandleFunc("/api/v1/tags", s.handleTags)
	mux.HandleFunc("/api/v1/roster", s.handleRoster)
	mux.HandleFunc("/api/v1/roster/", s.handleRosterDetail)
	mux.HandleFunc("/api/v1/events", s.handleEvents)

	// Generation endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/generate", s.adminOnly(RateLimitMiddleware(generateLimiter, s.handleGenerate)))
	mux.HandleFunc("/api/v1/generate/social", s.adminOnly(RateLimitMiddleware(generateLimiter, s.handleGenerateSocial)))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// adminOnly gates a handler behind the admin bearer token.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled", http.StatusForbidden)
			return
		}
		auth := r.Header.Get("Authorization")
		if auth != "Bearer "+s.AdminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleFamilies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"families": s.Store.Families()})
}

func (s *Server) handleVariants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"variants": s.Store.Variants()})
}

func (s *Server) handleOverlays(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"overlays": s.Store.Overlays()})
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"tags": s.Store.Tags()})
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	location := r.URL.Query().Get("location")

	npcs, err := s.DB.List(location, limit)
	if err != nil {
		slog.Error("roster list failed", "error", err)
		http.Error(w, "roster unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"npcs": npcs, "count": len(npcs)})
}

func (s *Server) handleRosterDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/roster/")
	if id == "" {
		http.Error(w, "missing npc id", http.StatusBadRequest)
		return
	}
	n, err := s.DB.Get(id)
	if err != nil {
		http.Error(w, "npc not found", http.StatusNotFound)
		return
	}
	writeJSON(w, n)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := s.DB.RecentEvents(limit)
	if err != nil {
		slog.Error("event list failed", "error", err)
		http.Error(w, "events unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"events": events})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		FamilyID      string `json:"family_id"`
		VariantID     string `json:"variant_id"`
		OverlayID     string `json:"overlay_id"`
		Level         int    `json:"level"`
		Difficulty    string `json:"difficulty"`
		EncounterSize string `json:"encounter_size"`
		Location      string `json:"location"`
		Count         int    `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Count <= 0 {
		req.Count = 1
	}
	if req.Count > 100 {
		req.Count = 100
	}

	batch := make([]*npc.NPC, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		n, err := s.Gen.Generate(gen.Request{
			FamilyID:      req.FamilyID,
			VariantID:     req.VariantID,
			OverlayID:     req.OverlayID,
			Level:         req.Level,
			Difficulty:    req.Difficulty,
			EncounterSize: req.EncounterSize,
			Location:      req.Location,
		})
		if err != nil {
			writeGenerateError(w, err)
			return
		}
		batch = append(batch, n)
	}

	if err := s.DB.SaveBatch(batch); err != nil {
		slog.Error("roster save failed", "error", err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"npcs": batch, "count": len(batch)})
}

func (s *Server) handleGenerateSocial(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Kind      string `json:"kind"`
		Location  string `json:"location"`
		Specialty string `json:"specialty"`
		Culture   string `json:"culture"`
		Seed      string `json:"seed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	n, err := s.Gen.CreateSocial(gen.SocialRequest{
		Kind:      npc.Kind(strings.ToUpper(req.Kind)),
		Location:  req.Location,
		Specialty: req.Specialty,
		Culture:   req.Culture,
		Seed:      req.Seed,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.DB.SaveNPC(n); err != nil {
		slog.Error("roster save failed", "error", err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, n)
}

// writeGenerateError maps fatal generation errors to 404/422 and
// everything else to 500.
func writeGenerateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gen.ErrFamilyNotFound),
		errors.Is(err, gen.ErrVariantNotFound),
		errors.Is(err, gen.ErrOverlayNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, gen.ErrOverlayNotAllowed):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		slog.Error("generation failed", "error", err)
		http.Error(w, "generation failed", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}
