package session

import (
	"context"
	"testing"
)

func TestGetOrCreateStartsAtWelcome(t *testing.T) {
	store := NewMemoryStore()

	s, err := store.GetOrCreate(context.Background(), "4477001122", "Amara")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if s.Step != StepWelcome {
		t.Errorf("Step = %q, want %q", s.Step, StepWelcome)
	}
	if s.DisplayName != "Amara" {
		t.Errorf("DisplayName = %q, want Amara", s.DisplayName)
	}
	if s.ActiveTicketID != "" {
		t.Errorf("ActiveTicketID = %q, want empty", s.ActiveTicketID)
	}
}

func TestGetOrCreateDefaultsDisplayName(t *testing.T) {
	store := NewMemoryStore()

	s, _ := store.GetOrCreate(context.Background(), "4477001122", "")
	if s.DisplayName != "there" {
		t.Errorf("DisplayName = %q, want \"there\"", s.DisplayName)
	}
}

func TestGetOrCreateNeverOverwritesDisplayName(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s, _ := store.GetOrCreate(ctx, "4477001122", "Amara")
	s.Step = StepMainMenu
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	again, _ := store.GetOrCreate(ctx, "4477001122", "Somebody Else")
	if again.DisplayName != "Amara" {
		t.Errorf("DisplayName = %q, want Amara", again.DisplayName)
	}
	if again.Step != StepMainMenu {
		t.Errorf("Step = %q, want %q", again.Step, StepMainMenu)
	}
}

func TestSaveIsolatesCallerState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s, _ := store.GetOrCreate(ctx, "4477001122", "Amara")
	s.Scratch.Complaint = &ComplaintDraft{Stage: 2, Type: "service quality"}
	store.Save(ctx, s)

	// Mutating the caller's copy must not leak into the store.
	s.Scratch.Complaint.Stage = 4

	reloaded, _ := store.GetOrCreate(ctx, "4477001122", "")
	if reloaded.Scratch.Complaint == nil || reloaded.Scratch.Complaint.Stage != 2 {
		t.Errorf("stored draft mutated through caller copy: %+v", reloaded.Scratch.Complaint)
	}
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.GetOrCreate(ctx, "a", "")
	store.GetOrCreate(ctx, "b", "")
	store.GetOrCreate(ctx, "a", "")

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestStepClassification(t *testing.T) {
	agentFamily := map[Step]bool{
		StepAgentSelection: true,
		StepWithAgent:      true,
		StepComplaintForm:  true,
		StepFeedbackForm:   true,
	}

	for _, step := range AllSteps {
		if !step.Valid() {
			t.Errorf("step %q not valid", step)
		}
		if step.InAgentFlow() != agentFamily[step] {
			t.Errorf("InAgentFlow(%q) = %v, want %v", step, step.InAgentFlow(), agentFamily[step])
		}
		if step.Interruptible() == agentFamily[step] {
			t.Errorf("Interruptible(%q) = %v, want %v", step, step.Interruptible(), !agentFamily[step])
		}
	}

	if Step("nonsense").Valid() {
		t.Error("unknown step reported valid")
	}
}

func TestCheckTicketLink(t *testing.T) {
	tests := []struct {
		name   string
		step   Step
		ticket string
		want   bool
	}{
		{"menu without ticket", StepMainMenu, "", true},
		{"menu with ticket", StepMainMenu, "TK123456ABC", false},
		{"with_agent with ticket", StepWithAgent, "TK123456ABC", true},
		{"with_agent without ticket", StepWithAgent, "", false},
		{"feedback with ticket", StepFeedbackForm, "TK123456ABC", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{CustomerID: "c", Step: tt.step, ActiveTicketID: tt.ticket}
			if got := s.CheckTicketLink(); got != tt.want {
				t.Errorf("CheckTicketLink() = %v, want %v", got, tt.want)
			}
		})
	}
}
