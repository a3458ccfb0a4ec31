package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zeusync/simmeta/internal/core/metadata/library"
	"github.com/zeusync/simmeta/internal/core/observability/log"
)

type familyInfo struct {
	Name   string `json:"name"`
	Suffix string `json:"suffix,omitempty"`
	Count  int    `json:"count"`
}

type reloadResponse struct {
	Summary *library.LoadSummary `json:"summary"`
	Error   string               `json:"error,omitempty"`
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /templates", s.handleFamilies)
	mux.HandleFunc("GET /templates/{family}", s.handleHandles)
	mux.HandleFunc("GET /templates/{family}/{handle...}", s.handleTemplate)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("POST /reload", s.handleReload)
	mux.HandleFunc("GET /ws/events", s.handleEvents)
	mux.HandleFunc("GET /log/level", s.handleLogLevel)
	mux.HandleFunc("PUT /log/level", s.handleSetLogLevel)
}

func (s *Server) handleFamilies(w http.ResponseWriter, _ *http.Request) {
	fams := s.lib.Families()
	out := make([]familyInfo, 0, len(fams))
	for _, f := range fams {
		out = append(out, familyInfo{Name: f.Name(), Suffix: f.Suffix(), Count: f.NumObjects()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHandles(w http.ResponseWriter, r *http.Request) {
	fam, ok := s.lib.Family(r.PathValue("family"))
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", ErrFamilyNotFound, r.PathValue("family")))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"family":  fam.Name(),
		"handles": fam.Handles(r.URL.Query().Get("q")),
	})
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	fam, ok := s.lib.Family(r.PathValue("family"))
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", ErrFamilyNotFound, r.PathValue("family")))
		return
	}
	handle := r.PathValue("handle")
	tmpl, ok := fam.Lookup(handle)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s %q", ErrTemplateNotFound, fam.Name(), handle))
		return
	}
	out := library.Describe(tmpl)
	out["locked"] = fam.IsLocked(handle)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.GetStats())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	summary, err := s.lib.LoadDataset(r.Context())
	if summary == nil {
		s.logger.Error("Reload failed", log.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	resp := reloadResponse{Summary: summary}
	if err != nil {
		s.logger.Warn("Reload finished with errors",
			log.Int("failed", len(summary.Failed)),
			log.ErrorWithKey("reload_error", err),
		)
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

type logLevelResponse struct {
	Level string `json:"level"`
}

func (s *Server) handleLogLevel(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, logLevelResponse{Level: s.logger.GetLevel().String()})
}

func (s *Server) handleSetLogLevel(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("level")
	level, ok := log.ParseLevel(name)
	if !ok || name == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrInvalidLogLevel, name))
		return
	}
	s.logger.SetLevel(level)
	s.logger.Info("Log level changed", log.String("level", level.String()))
	writeJSON(w, http.StatusOK, logLevelResponse{Level: level.String()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
