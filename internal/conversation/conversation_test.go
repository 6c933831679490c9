package conversation

import (
	"errors"
	"testing"
)

func TestNewStartsWithSystemMessage(t *testing.T) {
	c := New("You are an interview coach.")
	if len(c) != 1 {
		t.Fatalf("expected 1 message, got %d", len(c))
	}
	if c[0].Role != RoleSystem {
		t.Fatalf("expected system role, got %q", c[0].Role)
	}
	if c[0].Content != "You are an interview coach." {
		t.Fatalf("unexpected system prompt: %q", c[0].Content)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		conv Conversation
		want error
	}{
		{"empty", Conversation{}, ErrEmptyConversation},
		{"no system first", Conversation{{Role: RoleUser, Content: "hi"}}, ErrMissingSystemPrompt},
		{
			"stray system",
			Conversation{
				{Role: RoleSystem, Content: "s"},
				{Role: RoleUser, Content: "q"},
				{Role: RoleSystem, Content: "again"},
			},
			ErrStraySystemMessage,
		},
		{
			"unknown role",
			Conversation{
				{Role: RoleSystem, Content: "s"},
				{Role: Role("moderator"), Content: "x"},
			},
			ErrUnknownRole,
		},
		{
			"valid",
			Conversation{
				{Role: RoleSystem, Content: "s"},
				{Role: RoleUser, Content: "q"},
				{Role: RoleAssistant, Content: "a"},
			},
			nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.conv.Validate()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAppendDoesNotMutateReceiver(t *testing.T) {
	base := New("s")
	grown := base.Append(Message{Role: RoleUser, Content: "first"})
	grown.Append(Message{Role: RoleAssistant, Content: "reply"})

	if len(base) != 1 {
		t.Fatalf("base conversation mutated, len=%d", len(base))
	}
	if len(grown) != 2 {
		t.Fatalf("expected 2 messages after append, got %d", len(grown))
	}

	// Appending to the shorter slice must not overwrite the longer one.
	other := grown.Append(Message{Role: RoleAssistant, Content: "A"})
	grown = grown.Append(Message{Role: RoleAssistant, Content: "B"})
	if other[2].Content != "A" || grown[2].Content != "B" {
		t.Fatalf("appends shared backing storage: %q vs %q", other[2].Content, grown[2].Content)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := Conversation{
		{Role: RoleSystem, Content: "You are an interview coach."},
		{Role: RoleUser, Content: "I have three years of experience.\nMostly backend."},
		{Role: RoleAssistant, Content: "Tell me about a difficult bug — how did you approach it?"},
		{Role: RoleUser, Content: ""},
	}

	data, err := Encode(original)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	restored, err := Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(restored) != len(original) {
		t.Fatalf("length mismatch: %d vs %d", len(restored), len(original))
	}
	for i := range original {
		if restored[i].Role != original[i].Role || restored[i].Content != original[i].Content {
			t.Fatalf("message %d mismatch: %+v vs %+v", i, restored[i], original[i])
		}
	}
}

func TestDecodeRejectsCorruptHistory(t *testing.T) {
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if _, err := Decode([]byte(`[{"role":"user","content":"q"}]`)); !errors.Is(err, ErrMissingSystemPrompt) {
		t.Fatalf("expected ErrMissingSystemPrompt, got %v", err)
	}
}
