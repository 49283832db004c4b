package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/justsurfingit/jobly/internal/apperror"
	"github.com/justsurfingit/jobly/internal/config"
	"github.com/justsurfingit/jobly/internal/dtos"
)

const maxPostingLength = 20000

const jobExtractionPrompt = `
You are a job posting extraction agent. Analyze the raw HTML or text of a job posting and extract structured data.

### INSTRUCTIONS:
1. Ignore navigation menus, footers, "similar jobs" lists and advertisements.
2. Output valid JSON only, without markdown code blocks.

### OUTPUT SCHEMA:
{
    "title": "Job title (e.g. Senior Backend Engineer)",
    "company_name": "Name of the hiring company",
    "location": "Job location or 'Remote'",
    "salary": "Yearly base salary as a whole number, the lower end if a range is given, otherwise null",
    "equity": "Equity as a fraction of the company between 0 and 1, otherwise null"
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not guess.

### RAW CONTENT:
%s
`

// LLMService turns raw job postings into draft jobs with a Gemini model.
type LLMService struct {
	Client  llms.Model
	Matcher *CompanyMatcher

	log zerolog.Logger
}

// NewLLMService creates the Gemini client. cfg.APIKey must be set.
func NewLLMService(ctx context.Context, cfg config.LLMConfig, matcher *CompanyMatcher, log zerolog.Logger) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &LLMService{
		Client:  llm,
		Matcher: matcher,
		log:     log.With().Str("service", "llm").Logger(),
	}, nil
}

// ExtractJob asks the model for the job details in req.RawHTML and resolves
// the company against the stored companies. Nothing is persisted.
func (s *LLMService) ExtractJob(ctx context.Context, req *dtos.JobExtractionRequest) (*dtos.JobDraft, error) {
	raw := truncate(req.RawHTML, maxPostingLength)

	var resp string
	err := retry(ctx, s.log, 3, time.Second, func() error {
		var e error
		resp, e = llms.GenerateFromSinglePrompt(ctx, s.Client, fmt.Sprintf(jobExtractionPrompt, raw),
			llms.WithTemperature(0))
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("job extraction failed: %w", err)
	}

	draft, err := parseJobDraft(resp)
	if err != nil {
		return nil, err
	}
	draft.SourceURL = req.URL

	if s.Matcher != nil && draft.CompanyName != "" {
		handle, ok, err := s.Matcher.MatchHandle(ctx, draft.CompanyName)
		if err != nil {
			return nil, err
		}
		if ok {
			draft.CompanyHandle = handle
		}
	}

	s.log.Info().Str("title", draft.Title).Str("company", draft.CompanyHandle).Msg("Job extracted")
	return draft, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

type extractedJob struct {
	Title       string   `json:"title"`
	CompanyName string   `json:"company_name"`
	Location    string   `json:"location"`
	Salary      *float64 `json:"salary"`
	Equity      *float64 `json:"equity"`
}

// parseJobDraft decodes the model output. Values outside the job model's
// domain (negative salary, equity outside [0, 1]) are dropped.
func parseJobDraft(resp string) (*dtos.JobDraft, error) {
	body := strings.TrimSpace(resp)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	body = strings.TrimSpace(body)

	var job extractedJob
	if err := json.Unmarshal([]byte(body), &job); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	if strings.TrimSpace(job.Title) == "" {
		return nil, apperror.InvalidRequest("no job title found in posting")
	}

	draft := &dtos.JobDraft{
		Title:       strings.TrimSpace(job.Title),
		CompanyName: strings.TrimSpace(job.CompanyName),
		Location:    strings.TrimSpace(job.Location),
	}
	if job.Salary != nil && *job.Salary >= 0 {
		salary := int(math.Round(*job.Salary))
		draft.Salary = &salary
	}
	if job.Equity != nil && *job.Equity >= 0 && *job.Equity <= 1 {
		equity := *job.Equity
		draft.Equity = &equity
	}
	return draft, nil
}
