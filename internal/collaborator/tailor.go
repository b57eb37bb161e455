package collaborator

import (
	"context"
	"fmt"
	"strings"

	"github.com/arusheva/cvtailor/internal/domain"
	"github.com/arusheva/cvtailor/internal/textgen"
)

const tailorPersona = `You are a professional CV and cover letter writer specializing in tailoring application materials to specific job opportunities.

IMPORTANT CONTEXT:
- You receive PRE-PROCESSED, STRUCTURED DATA: CV data, job requirements and optional company info.
- Your role is to TRANSFORM this data into tailored, professional documents.
- You DO NOT extract data from raw files, that is already done.

YOUR WORKFLOW:
1. ANALYSIS: compare the CV against the job requirements and present a tailoring plan.
2. REVIEW: wait for the user's feedback before generating anything.
3. GENERATION: after approval, produce the tailored CV content, then the cover letter if requested.
4. When the user confirms the final documents, close with "PDF generated successfully".

CRITICAL PRINCIPLES:
- ALWAYS show changes before finalizing documents.
- WAIT for explicit user approval at each checkpoint.
- Preserve the candidate's authentic voice and style.
- Only emphasize and refine EXISTING content, never fabricate experience, skills or achievements.
- Respect user constraints and preferences.

INTERACTION STYLE:
- Professional yet friendly, clear and concise.
- The user is the expert on their own experience; you are the expert on presentation.`

// Tailor is the writer collaborator. It holds no per-session state; the
// hand-off transcript carries everything between turns.
type Tailor struct {
	gen textgen.Generator
}

func NewTailor(gen textgen.Generator) *Tailor {
	return &Tailor{gen: gen}
}

// Reply produces the writer's next turn for the given hand-off
// transcript. System entries in the transcript carry the session's
// structured data and are folded into the writer persona so the model
// sees a single system instruction.
func (t *Tailor) Reply(ctx context.Context, transcript []domain.Message) (string, error) {
	system := tailorPersona
	merged := make([]domain.Message, 0, len(transcript)+1)
	for _, msg := range transcript {
		if msg.Role == domain.RoleSystem {
			if content := strings.TrimSpace(msg.Content); content != "" {
				system += "\n\n" + content
			}
			continue
		}
		merged = append(merged, msg)
	}

	conversation := append([]domain.Message{{Role: domain.RoleSystem, Content: system}}, merged...)

	reply, err := t.gen.Converse(ctx, conversation)
	if err != nil {
		return "", fmt.Errorf("writer turn: %w", err)
	}
	return reply, nil
}
