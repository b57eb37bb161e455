package collaborator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/arusheva/cvtailor/internal/domain"
	"github.com/arusheva/cvtailor/internal/textgen"
)

const extractSystemPrompt = "Extract all information from the resume text. " +
	"Be thorough and capture all details."

const ambiguitySystemPrompt = `Analyze the resume data for:
- Missing important information
- Ambiguous entries
- Unclear dates or descriptions
- Information that needs verification

Return a numbered list of specific questions to ask the user, or "No questions needed" if everything is clear.`

const clarifySystemPrompt = "Update the resume data by incorporating the user's " +
	"clarifying answers. Return the complete updated record. Keep every field " +
	"that the answers do not change."

// Extractor turns a resume document into a structured ResumeRecord and
// drives the clarification loop over it.
type Extractor struct {
	gen textgen.Generator
}

func NewExtractor(gen textgen.Generator) *Extractor {
	return &Extractor{gen: gen}
}

// Extract reads the document at path and parses it into a ResumeRecord.
// A path that cannot be read is the user's problem, not the model's,
// and is reported as an InputError.
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.ResumeRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewInputError(fmt.Sprintf("file not found: %s", path))
		}
		return nil, NewInputError(fmt.Sprintf("cannot read file %s: %v", path, err))
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, NewInputError(fmt.Sprintf("file is empty: %s", path))
	}

	var record domain.ResumeRecord
	if err := e.gen.GenerateJSON(ctx, extractSystemPrompt, text, resumeSchema, &record); err != nil {
		return nil, fmt.Errorf("extract resume: %w", err)
	}
	return &record, nil
}

// FindAmbiguities reviews an extracted record for gaps and returns a
// numbered list of clarifying questions. An empty string means the
// record is clear.
func (e *Extractor) FindAmbiguities(ctx context.Context, record *domain.ResumeRecord) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode resume: %w", err)
	}

	reply, err := e.gen.GenerateText(ctx, ambiguitySystemPrompt, "Resume data:\n"+string(data))
	if err != nil {
		return "", fmt.Errorf("identify ambiguities: %w", err)
	}

	if noQuestions(reply) {
		return "", nil
	}
	return strings.TrimSpace(reply), nil
}

// MergeClarification folds the user's answers back into the record and
// returns the updated version.
func (e *Extractor) MergeClarification(ctx context.Context, record *domain.ResumeRecord, answers string) (*domain.ResumeRecord, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode resume: %w", err)
	}

	prompt := fmt.Sprintf("Original resume:\n%s\n\nClarifications:\n%s", data, answers)

	var updated domain.ResumeRecord
	if err := e.gen.GenerateJSON(ctx, clarifySystemPrompt, prompt, resumeSchema, &updated); err != nil {
		return nil, fmt.Errorf("apply clarifications: %w", err)
	}
	return &updated, nil
}

// noQuestions detects the model saying the record needs no follow-up.
func noQuestions(reply string) bool {
	lowered := strings.ToLower(strings.TrimSpace(reply))
	if lowered == "" {
		return true
	}
	for _, phrase := range []string{"no questions", "no clarification", "everything is clear", "nothing is unclear"} {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
