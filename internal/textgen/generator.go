// Package textgen wraps the Google GenAI client behind the narrow
// text-generation capability the rest of the application consumes.
package textgen

import (
	"context"

	"google.golang.org/genai"

	"github.com/arusheva/cvtailor/internal/domain"
)

// Generator is the text-generation capability used by the intent
// classifier and the collaborators. Implementations must be safe for
// concurrent use; they hold no per-session state.
type Generator interface {
	// GenerateText sends a single prompt and returns the model's reply.
	GenerateText(ctx context.Context, system, prompt string) (string, error)

	// GenerateJSON constrains the reply to the given schema and decodes
	// it into out.
	GenerateJSON(ctx context.Context, system, prompt string, schema *genai.Schema, out any) error

	// Converse continues a multi-turn transcript and returns the reply.
	// System entries in the transcript become the system instruction.
	Converse(ctx context.Context, transcript []domain.Message) (string, error)

	// SearchGrounded answers the prompt with web search grounding enabled.
	SearchGrounded(ctx context.Context, prompt string) (string, error)
}
