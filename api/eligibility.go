package api

import (
	"net/http"
	"strings"

	"github.com/garnizeh/jobhunt/internal/apperr"
	"github.com/garnizeh/jobhunt/internal/eligibility"
)

const maxUploadBytes = 10 << 20

type EligibilityHandler struct {
	assessor eligibility.Assessor
}

func NewEligibilityHandler(a eligibility.Assessor) *EligibilityHandler {
	return &EligibilityHandler{assessor: a}
}

// Check reads a multipart form with job_title, experience_level and a resume
// file. Only the resume's file name is inspected.
func (h *EligibilityHandler) Check(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	req := eligibility.Request{
		JobTitle:        strings.TrimSpace(r.FormValue("job_title")),
		ExperienceLevel: strings.TrimSpace(r.FormValue("experience_level")),
	}

	verr := &apperr.ValidationError{}
	if req.JobTitle == "" {
		verr.Add("job_title", "value is required")
	}
	if req.ExperienceLevel == "" {
		verr.Add("experience_level", "value is required")
	}
	file, header, err := r.FormFile("resume")
	if err != nil {
		verr.Add("resume", "file is required")
	} else {
		file.Close()
		req.ResumeName = header.Filename
	}
	if err := verr.OrNil(); err != nil {
		writeError(w, r, err)
		return
	}

	decision, err := h.assessor.Assess(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}
