package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	cases := map[string]bool{
		"y\n":     true,
		"YES\n":   true,
		" yes ":   true,
		"n\n":     false,
		"":        false,
		"maybe\n": false,
	}
	for input, want := range cases {
		var out bytes.Buffer
		if got := Confirm(strings.NewReader(input), &out, "Delete group"); got != want {
			t.Fatalf("Confirm(%q) = %v, want %v", input, got, want)
		}
		if out.String() != "Delete group [y/N]: " {
			t.Fatalf("unexpected prompt %q", out.String())
		}
	}
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	if got := Prompt(strings.NewReader("  Docker  \nignored\n"), &out, "Group"); got != "Docker" {
		t.Fatalf("Prompt = %q", got)
	}
}
