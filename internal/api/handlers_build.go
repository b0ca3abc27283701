package api

import (
	"net/http"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	report := s.orchestrator.LastReport()
	if report == nil {
		jsonError(w, "no conversion has run yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, report.Snapshot())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orchestrator.Stats())
}

// handleRebuild runs a conversion and waits for it. Concurrent requests queue
// behind the running conversion.
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	report, err := s.orchestrator.Run(r.Context())
	if err != nil {
		s.log.Warn("rebuild failed", "error", err)
		if report == nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusInternalServerError, report.Snapshot())
		return
	}
	writeJSON(w, http.StatusOK, report.Snapshot())
}
