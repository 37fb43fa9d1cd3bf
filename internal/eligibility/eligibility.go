// Package eligibility decides whether a candidate may apply to a position.
//
// The decision is made by an Assessor. RandomAssessor is a placeholder coin
// flip; OllamaAssessor asks a local model and falls back to another Assessor
// when the model is unavailable.
package eligibility

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"sync"

	"github.com/garnizeh/jobhunt/internal/apperr"
)

const (
	EligibleMessage   = "You are eligible for this position with your experience."
	IneligibleMessage = "Sorry, you are not eligible. Consider taking these related courses:"
)

// SuggestedCourses is returned with every negative decision.
var SuggestedCourses = []string{
	"Advanced Machine Learning",
	"Resume Writing for Tech Jobs",
	"Upskilling in Python for Data Science",
}

var allowedExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

type Request struct {
	JobTitle        string
	ExperienceLevel string
	ResumeName      string
}

type Decision struct {
	Eligible bool     `json:"eligible"`
	Message  string   `json:"message"`
	Courses  []string `json:"courses,omitempty"`
}

type Assessor interface {
	Assess(ctx context.Context, req Request) (Decision, error)
}

// CheckExtension accepts .pdf, .doc and .docx file names in any case.
func CheckExtension(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: %q", apperr.ErrInvalidFormat, ext)
	}
	return nil
}

// NewDecision builds the user-facing decision for a verdict.
func NewDecision(eligible bool) Decision {
	if eligible {
		return Decision{Eligible: true, Message: EligibleMessage}
	}
	courses := make([]string, len(SuggestedCourses))
	copy(courses, SuggestedCourses)
	return Decision{Eligible: false, Message: IneligibleMessage, Courses: courses}
}

// RandomAssessor is a placeholder: it ignores the request and flips a coin.
type RandomAssessor struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomAssessor uses src for its coin; nil seeds from the runtime.
func NewRandomAssessor(src rand.Source) *RandomAssessor {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &RandomAssessor{rng: rand.New(src)}
}

func (a *RandomAssessor) Assess(ctx context.Context, req Request) (Decision, error) {
	if err := CheckExtension(req.ResumeName); err != nil {
		return Decision{}, err
	}
	a.mu.Lock()
	eligible := a.rng.IntN(2) == 1
	a.mu.Unlock()
	return NewDecision(eligible), nil
}
