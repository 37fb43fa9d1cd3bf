package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/garnizeh/jobhunt/internal/apperr"
	"github.com/garnizeh/jobhunt/internal/query"
	"github.com/garnizeh/jobhunt/pkg/repository"
)

type JobsHandler struct {
	jobs     repository.JobRepo
	maxLimit int
}

func NewJobsHandler(jobs repository.JobRepo, maxLimit int) *JobsHandler {
	if maxLimit <= 0 {
		maxLimit = query.MaxLimit
	}
	return &JobsHandler{jobs: jobs, maxLimit: maxLimit}
}

// GetJob returns the job matching both company and job_title.
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	company, title := q.Get("company"), q.Get("job_title")
	if company == "" || title == "" {
		verr := &apperr.ValidationError{}
		if company == "" {
			verr.Add("company", "value is required")
		}
		if title == "" {
			verr.Add("job_title", "value is required")
		}
		writeError(w, r, verr)
		return
	}

	job, err := h.jobs.FindJob(r.Context(), query.Filter{Company: company, Title: title})
	if errors.Is(err, apperr.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// ListJobs returns one page of jobs matching the optional filters. The total
// match count and next offset travel in headers so the body stays an array.
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := query.ParsePage(q, h.maxLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f := query.FilterFromValues(q)

	total, err := h.jobs.CountJobs(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	jobs, err := h.jobs.ListJobs(r.Context(), f, page)
	if errors.Is(err, apperr.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "No jobs found")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	if next := page.Next(total); next >= 0 {
		w.Header().Set("X-Next-Offset", strconv.Itoa(next))
	}
	writeJSON(w, http.StatusOK, jobs)
}
