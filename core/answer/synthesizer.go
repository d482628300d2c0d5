package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/siherrmann/docqa/model"
)

// systemInstruction constrains the model to the supplied context. The
// citation format (Source <n>) matches the numbering of the context block.
const systemInstruction = "You are an assistant that answers only with the information from the provided sources. " +
	"If the sources do not contain enough information, say that you could not find it. " +
	"Answer in the language of the question and cite the sources like this: (Source 1), (Source 2)..."

// Synthesizer builds a grounded prompt from retrieved passages and asks the
// generator for a cited answer. Generation failures are downgraded into the
// Answer so retrieval evidence always reaches the caller; ingestion-style
// fail-fast handling deliberately does not apply here.
type Synthesizer struct {
	generator    Generator
	enabled      bool
	contextChars int
	log          *slog.Logger
}

// NewSynthesizer creates a synthesizer. When enabled is false every
// Synthesize call is a configured no-op. contextChars bounds how much of
// each passage is rendered into the prompt.
func NewSynthesizer(generator Generator, enabled bool, contextChars int, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{
		generator:    generator,
		enabled:      enabled,
		contextChars: contextChars,
		log:          logger,
	}
}

// Synthesize produces a grounded answer for the question from the passages.
// It never returns an error: disabled generation yields an empty Answer and
// a failed generation call yields an Answer carrying the failure message.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, passages []*model.RetrievalResult) *model.Answer {
	if !s.enabled {
		return &model.Answer{}
	}

	text, err := s.generator.Generate(ctx, s.buildMessages(question, passages))
	if err != nil {
		s.log.Error("answer generation failed", slog.String("error", err.Error()))
		message := err.Error()
		return &model.Answer{GenerationError: &message}
	}

	grounded := make([]string, 0, len(passages))
	for _, passage := range passages {
		grounded = append(grounded, passage.SourceID)
	}

	return &model.Answer{
		Text:       &text,
		GroundedIn: grounded,
	}
}

func (s *Synthesizer) buildMessages(question string, passages []*model.RetrievalResult) []Message {
	return []Message{
		{Role: "system", Content: systemInstruction},
		{Role: "user", Content: fmt.Sprintf("Question: %s\n\nSources:\n%s", question, s.buildContext(passages))},
	}
}

// buildContext renders the passages in retrieval order, each truncated to
// the configured character budget.
func (s *Synthesizer) buildContext(passages []*model.RetrievalResult) string {
	blocks := make([]string, 0, len(passages))
	for i, passage := range passages {
		blocks = append(blocks, fmt.Sprintf(
			"Source %d: %s (score %.3f)\n%s",
			i+1,
			passage.SourceID,
			passage.Score,
			s.truncate(passage.Content),
		))
	}
	return strings.Join(blocks, "\n\n")
}

func (s *Synthesizer) truncate(text string) string {
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if len(runes) <= s.contextChars {
		return trimmed
	}
	return string(runes[:s.contextChars]) + "..."
}
