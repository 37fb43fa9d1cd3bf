package eligibility

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/garnizeh/jobhunt/pkg/ollama"
	"go.uber.org/zap"
)

// Generator is the part of the Ollama client the assessor needs.
type Generator interface {
	Generate(ctx context.Context, model, prompt string, opts ollama.GenerateOptions) (ollama.GenerateResult, error)
}

const systemPrompt = "You screen job applicants. Reply only with JSON of the form {\"eligible\": true} or {\"eligible\": false}."

var promptTemplate = template.Must(template.New("eligibility").Parse(
	`Position: {{.JobTitle}}
Candidate experience level: {{.ExperienceLevel}}
Resume file: {{.ResumeName}}
Is the candidate eligible for this position?`))

// OllamaAssessor asks a local model for the verdict. Any model or decoding
// failure is logged and the fallback decides instead.
type OllamaAssessor struct {
	gen      Generator
	model    string
	fallback Assessor
	logger   *zap.Logger
}

// NewOllamaAssessor asks model through gen. When the model cannot answer the
// request is handed to fallback; with a nil fallback the error is returned.
func NewOllamaAssessor(gen Generator, model string, fallback Assessor, logger *zap.Logger) *OllamaAssessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OllamaAssessor{gen: gen, model: model, fallback: fallback, logger: logger}
}

func (a *OllamaAssessor) Assess(ctx context.Context, req Request) (Decision, error) {
	if err := CheckExtension(req.ResumeName); err != nil {
		return Decision{}, err
	}

	eligible, err := a.ask(ctx, req)
	if err != nil && a.fallback == nil {
		return Decision{}, err
	}
	if err != nil {
		a.logger.Warn("model assessment failed, using fallback",
			zap.String("model", a.model),
			zap.String("job_title", req.JobTitle),
			zap.Error(err))
		return a.fallback.Assess(ctx, req)
	}
	return NewDecision(eligible), nil
}

func (a *OllamaAssessor) ask(ctx context.Context, req Request) (bool, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, req); err != nil {
		return false, fmt.Errorf("render prompt: %w", err)
	}

	res, err := a.gen.Generate(ctx, a.model, buf.String(), ollama.GenerateOptions{JSON: true, System: systemPrompt})
	if err != nil {
		return false, err
	}

	var verdict struct {
		Eligible *bool `json:"eligible"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(res.Text)), &verdict); err != nil {
		return false, fmt.Errorf("decode model answer %q: %w", res.Text, err)
	}
	if verdict.Eligible == nil {
		return false, fmt.Errorf("model answer %q has no eligible field", res.Text)
	}
	return *verdict.Eligible, nil
}
