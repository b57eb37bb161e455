package collaborator

import (
	"context"
	"strings"
	"testing"

	"github.com/arusheva/cvtailor/internal/domain"
)

func TestTailorMergesSystemEntriesIntoPersona(t *testing.T) {
	gen := &fakeGen{textReply: "Here is my tailoring plan."}
	tailor := NewTailor(gen)

	transcript := []domain.Message{
		{Role: domain.RoleSystem, Content: "CV Data (JSON):\n{\"name\":\"Ada\"}"},
		{Role: domain.RoleUser, Content: "please tailor my cv"},
	}

	reply, err := tailor.Reply(context.Background(), transcript)
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply != "Here is my tailoring plan." {
		t.Errorf("reply = %q", reply)
	}
	if !strings.Contains(gen.lastSystem, "professional CV and cover letter writer") {
		t.Errorf("persona missing from system instruction: %q", gen.lastSystem)
	}
	if !strings.Contains(gen.lastSystem, `{"name":"Ada"}`) {
		t.Errorf("transcript context not folded into system instruction: %q", gen.lastSystem)
	}
	if gen.lastPrompt != "please tailor my cv" {
		t.Errorf("last user turn = %q", gen.lastPrompt)
	}
}
