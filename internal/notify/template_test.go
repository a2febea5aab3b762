package notify

import "testing"

func TestRender_NoTokens(t *testing.T) {
	got := Render("plain text, no substitutions", map[string]string{"name": "Jane"})
	if got != "plain text, no substitutions" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestRender_AllTokensResolved(t *testing.T) {
	got := Render("Hi {$name}, see you at {$time}", map[string]string{
		"name": "Jane",
		"time": "10:00 AM",
	})
	if got != "Hi Jane, see you at 10:00 AM" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestRender_UnknownTokenPreserved(t *testing.T) {
	got := Render("Hi {$missing}", map[string]string{})
	if got != "Hi {$missing}" {
		t.Fatalf("unknown token must stay verbatim, got %q", got)
	}
}

func TestRender_AdjacentTokens(t *testing.T) {
	got := Render("{$a}{$b}", map[string]string{"a": "1", "b": "2"})
	if got != "12" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestRender_UnterminatedTokenLeftAlone(t *testing.T) {
	got := Render("Hi {$name, bye", map[string]string{"name": "Jane"})
	if got != "Hi {$name, bye" {
		t.Fatalf("token without closing brace must stay verbatim, got %q", got)
	}
}

func TestRender_EmptyValueSubstituted(t *testing.T) {
	got := Render("Hi {$name}!", map[string]string{"name": ""})
	if got != "Hi !" {
		t.Fatalf("empty value is still a value, got %q", got)
	}
}
