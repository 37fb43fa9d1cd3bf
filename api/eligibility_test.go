package api_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/garnizeh/jobhunt/api"
	"github.com/garnizeh/jobhunt/internal/eligibility"
)

func multipartRequest(t *testing.T, fields map[string]string, fileName string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("resume", fileName)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = fw.Write([]byte("%PDF-1.4 resume"))
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/eligibility/check", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestEligibilityCheck(t *testing.T) {
	fields := map[string]string{"job_title": "ML Engineer", "experience_level": "Entry level"}

	cases := []struct {
		name       string
		fields     map[string]string
		file       string
		wantStatus int
		wantBody   string
	}{
		{"EligiblePDF", fields, "cv.pdf", http.StatusOK, `"eligible":true`},
		{"UppercaseDOCX", fields, "CV.DOCX", http.StatusOK, eligibility.EligibleMessage},
		{"BadExtension", fields, "cv.png", http.StatusBadRequest, `{"error":"Invalid file format. Only PDF, DOC, DOCX are allowed."}`},
		{"MissingFile", fields, "", http.StatusBadRequest, `"field":"resume"`},
		{"MissingFields", map[string]string{}, "cv.pdf", http.StatusBadRequest, `"field":"experience_level"`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := newTestEnv(t, nil)
			res, body := e.do(multipartRequest(t, c.fields, c.file))
			if res.StatusCode != c.wantStatus {
				t.Fatalf("want %d got %d body=%s", c.wantStatus, res.StatusCode, body)
			}
			if !strings.Contains(body, c.wantBody) {
				t.Fatalf("body %s does not contain %s", body, c.wantBody)
			}
		})
	}
}

func TestEligibilityCheck_NotEligibleListsCourses(t *testing.T) {
	h := api.NewEligibilityHandler(fixedAssessor{eligible: false})
	req := multipartRequest(t, map[string]string{"job_title": "ML Engineer", "experience_level": "Entry level"}, "cv.doc")
	w := httptest.NewRecorder()
	h.Check(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("want 200 got %d", w.Code)
	}
	body := w.Body.String()
	for _, s := range append([]string{`"eligible":false`, eligibility.IneligibleMessage}, eligibility.SuggestedCourses...) {
		if !strings.Contains(body, s) {
			t.Fatalf("body %s does not contain %s", body, s)
		}
	}
}

func TestEligibilityCheck_NotMultipart(t *testing.T) {
	e := newTestEnv(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/eligibility/check", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	res, _ := e.do(req)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 got %d", res.StatusCode)
	}
}
