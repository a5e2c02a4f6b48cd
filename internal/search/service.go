package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medidoc-backend/internal/documents"
	"medidoc-backend/internal/llm"
	"medidoc-backend/internal/shared/metrics"
	"medidoc-backend/internal/shared/telemetry"
)

var (
	// ErrEmptyQuery is returned for whitespace-only queries.
	ErrEmptyQuery = errors.New("search query cannot be empty")
	// ErrSearchUnavailable is returned when the completion call fails.
	// Unlike field extraction there is no fallback answer: a wrong or empty
	// answer is worse than an explicit failure.
	ErrSearchUnavailable = errors.New("search service is currently unavailable")
)

// Per-document content cap inside the stuffed context.
const maxContentChars = 1500

const blockDelimiter = "\n\n---\n\n"

const noDocumentsAnswer = "No documents have been uploaded yet. Please upload some medical documents first."

const systemPromptHeader = `You are a medical assistant helping a patient understand their medical history.
Answer the user's question based ONLY on the provided medical documents.

Guidelines:
- Provide a clear, helpful answer
- Mention specific document names when referencing information
- If information is not available in the documents, say so clearly
- Be concise but informative
- Use medical terminology appropriately but explain complex terms

Available Documents:
`

// Source identifies a stored document the answer likely drew from.
type Source struct {
	Filename string `json:"filename"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
}

// Result is a grounded answer with attributed sources.
type Result struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// Service answers free-text questions over the whole document corpus.
type Service struct {
	Repo documents.Repo
	LLM  llm.Client
}

// NewService constructs a Service.
func NewService(repo documents.Repo, client llm.Client) *Service {
	return &Service{Repo: repo, LLM: client}
}

// Answer stuffs every stored document into one prompt, asks the model, and
// attributes sources whose filenames appear in the answer text.
func (s *Service) Answer(ctx context.Context, query string) (Result, error) {
	start := time.Now()
	res, err := s.answer(ctx, query)
	metrics.ObserveSearchDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		if !errors.Is(err, ErrEmptyQuery) {
			metrics.IncSearchFailed()
		}
		return Result{}, err
	}
	metrics.IncSearchServed()
	return res, nil
}

func (s *Service) answer(ctx context.Context, query string) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, ErrEmptyQuery
	}

	rows, err := s.Repo.AllForSearch(ctx)
	if err != nil {
		telemetry.Error("search.repo.failed", map[string]any{"err": err.Error()})
		return Result{}, ErrSearchUnavailable
	}
	if len(rows) == 0 {
		return Result{Answer: noDocumentsAnswer, Sources: []Source{}}, nil
	}

	answer, err := s.LLM.Complete(ctx, llm.CompletionRequest{
		System:      systemPromptHeader + buildContext(rows),
		User:        query,
		Temperature: 0.2,
		MaxTokens:   800,
	})
	if err != nil {
		telemetry.Error("search.llm.failed", map[string]any{"err": err.Error()})
		return Result{}, ErrSearchUnavailable
	}

	return Result{
		Answer:  answer,
		Sources: attributeSources(answer, rows),
	}, nil
}

// buildContext emits one block per stored document, truncating each
// document's content, in store-iteration order. No ranking or filtering:
// this is exhaustive context stuffing, an accepted scalability ceiling.
func buildContext(rows []documents.SearchRow) string {
	blocks := make([]string, 0, len(rows))
	for i, row := range rows {
		content := row.Content
		if len(content) > maxContentChars {
			content = content[:maxContentChars]
		}
		blocks = append(blocks, fmt.Sprintf("Document %d: %s\nCategory: %s\nSummary: %s\nContent: %s",
			i+1, row.Filename, row.Category, row.Summary, content))
	}
	return strings.Join(blocks, blockDelimiter)
}

// attributeSources includes a document iff its filename appears as a
// case-insensitive substring of the answer. A heuristic, deliberately kept
// separate from the model call so it can be evaluated or replaced on its own.
func attributeSources(answer string, rows []documents.SearchRow) []Source {
	lowered := strings.ToLower(answer)
	sources := []Source{}
	for _, row := range rows {
		if strings.Contains(lowered, strings.ToLower(row.Filename)) {
			sources = append(sources, Source{
				Filename: row.Filename,
				Summary:  row.Summary,
				Category: row.Category,
			})
		}
	}
	return sources
}
