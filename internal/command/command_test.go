package command

import "testing"

func TestInterpret_ExactLiteralsOnly(t *testing.T) {
	tests := []struct {
		text string
		want Kind
	}{
		{"list", Inspect},
		{"clear", Reset},
		{"hello", Continue},
		// Near-misses must all fall through to Continue: the command
		// surface is an exact byte-for-byte match.
		{"Clear", Continue},
		{" clear", Continue},
		{"clear ", Continue},
		{"clearing", Continue},
		{"List", Continue},
		{"list ", Continue},
		{"LIST", Continue},
		{"", Continue},
	}

	for _, tt := range tests {
		d := Interpret(tt.text)
		if d.Kind != tt.want {
			t.Errorf("Interpret(%q).Kind = %v, want %v", tt.text, d.Kind, tt.want)
		}
	}
}

func TestInterpret_ContinueCarriesText(t *testing.T) {
	d := Interpret("what is the capital of France?")
	if d.Kind != Continue {
		t.Fatalf("expected Continue, got %v", d.Kind)
	}
	if d.Text != "what is the capital of France?" {
		t.Fatalf("unexpected carried text: %q", d.Text)
	}
}

func TestInterpret_CommandsCarryNoText(t *testing.T) {
	for _, text := range []string{"list", "clear"} {
		if d := Interpret(text); d.Text != "" {
			t.Errorf("Interpret(%q).Text = %q, want empty", text, d.Text)
		}
	}
}
