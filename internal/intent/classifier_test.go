package intent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/arusheva/cvtailor/internal/domain"
)

type fakeGen struct {
	jsonReply  string
	err        error
	lastPrompt string
	lastSystem string
}

func (g *fakeGen) GenerateText(context.Context, string, string) (string, error) {
	return "", nil
}

func (g *fakeGen) GenerateJSON(_ context.Context, system, prompt string, _ *genai.Schema, out any) error {
	g.lastSystem, g.lastPrompt = system, prompt
	if g.err != nil {
		return g.err
	}
	return json.Unmarshal([]byte(g.jsonReply), out)
}

func (g *fakeGen) Converse(context.Context, []domain.Message) (string, error) {
	return "", nil
}

func (g *fakeGen) SearchGrounded(context.Context, string) (string, error) {
	return "", nil
}

func TestClassifyReturnsLabel(t *testing.T) {
	gen := &fakeGen{jsonReply: `{"intent":"provide_job_url"}`}
	c := NewGenClassifier(gen)

	label, err := c.Classify(context.Background(), domain.StateSummary{Stage: domain.StageCollectingJob},
		"https://jobs.example.com/123")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if label != domain.IntentProvideJobURL {
		t.Errorf("label = %s", label)
	}
}

func TestClassifyPromptCarriesStateContext(t *testing.T) {
	gen := &fakeGen{jsonReply: `{"intent":"start_tailoring"}`}
	c := NewGenClassifier(gen)

	snapshot := domain.StateSummary{
		Stage:  domain.StageCollectingJob,
		HasCV:  true,
		HasJob: true,
	}
	if _, err := c.Classify(context.Background(), snapshot, "what now?"); err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if !strings.Contains(gen.lastPrompt, "has_cv=true") || !strings.Contains(gen.lastPrompt, "has_job=true") {
		t.Errorf("prompt missing record flags: %q", gen.lastPrompt)
	}
	if !strings.Contains(gen.lastSystem, "both a CV and a job posting") {
		t.Errorf("system prompt missing the readiness rule: %q", gen.lastSystem)
	}
}

func TestClassifyRejectsUnknownLabel(t *testing.T) {
	gen := &fakeGen{jsonReply: `{"intent":"make_coffee"}`}
	c := NewGenClassifier(gen)

	if _, err := c.Classify(context.Background(), domain.StateSummary{}, "hello"); err == nil {
		t.Fatal("Classify accepted an out-of-vocabulary label")
	}
}

func TestClassifyPropagatesGenerationFailure(t *testing.T) {
	gen := &fakeGen{err: errors.New("generation failed")}
	c := NewGenClassifier(gen)

	if _, err := c.Classify(context.Background(), domain.StateSummary{}, "hello"); err == nil {
		t.Fatal("Classify swallowed the generation failure")
	}
}

func TestLabelSchemaCoversAllIntents(t *testing.T) {
	enum := labelSchema.Properties["intent"].Enum
	if len(enum) != len(domain.Intents) {
		t.Fatalf("enum has %d labels, want %d", len(enum), len(domain.Intents))
	}
	for i, it := range domain.Intents {
		if enum[i] != string(it) {
			t.Errorf("enum[%d] = %q, want %q", i, enum[i], it)
		}
	}
}
