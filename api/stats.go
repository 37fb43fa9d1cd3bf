package api

import (
	"net/http"

	"github.com/garnizeh/jobhunt/pkg/repository"
)

type StatsHandler struct {
	stats repository.StatsRepo
}

func NewStatsHandler(stats repository.StatsRepo) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// StatsCharts serves the facet analytics used by the dashboard charts.
func (h *StatsHandler) StatsCharts(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.JobStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
