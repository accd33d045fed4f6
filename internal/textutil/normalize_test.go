package textutil

import (
	"strings"
	"testing"
)

func TestNormalizeBody(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \r\n\t ", ""},
		{"crlf variants", "one\r\ntwo\r\r\nthree\rfour", "one\ntwo\nthree\nfour"},
		{"space runs become breaks", "so much depends  upon   a red wheel", "so much depends\nupon\na red wheel"},
		{"stanza collapse", "a\n\n\n\n\nb", "a\n\nb"},
		{"trims lines", "  first line \n\t second\t", "first line\nsecond"},
		{"whitespace-only lines", "a\n\t\n \n\nb", "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeBody(tt.in)
			if got != tt.want {
				t.Fatalf("NormalizeBody(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeBodyIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"\r\r\n\r\n  x  \r\n\n\n\n y ",
		"a\n\t\n \n\nb",
		"The red wheel\r\nbarrow    glazed with rain\r\r\n\r\r\n\r\r\nwater",
		"   nbsp   ",
		strings.Repeat("word  ", 40),
		"tab\t\tseparated\n\n\n\t\n\n",
	}
	for _, in := range inputs {
		once := NormalizeBody(in)
		twice := NormalizeBody(once)
		if once != twice {
			t.Fatalf("NormalizeBody not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := map[string]string{
		"":                          "",
		"  The   Red\tWheelbarrow ": "The Red Wheelbarrow",
		"Ode\r\nto\nJoy":            "Ode to Joy",
	}
	for in, want := range tests {
		if got := NormalizeTitle(in); got != want {
			t.Fatalf("NormalizeTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLogicalName(t *testing.T) {
	tests := map[string]string{
		"The Red Wheelbarrow":     "the_red_wheelbarrow",
		"  The  Red Wheelbarrow ": "the_red_wheelbarrow",
		"Ode à l'été":             "ode_a_l_ete",
		"":                        "untitled",
		"???":                     "untitled",
		"Sailing to Byzantium":    "sailing_to_byzantium",
		"Poem (1927)":             "poem_1927",
		"Ode_to__Joy":             "ode_to_joy",
		"--dash--":                "dash",
	}
	for in, want := range tests {
		if got := LogicalName(in); got != want {
			t.Fatalf("LogicalName(%q) = %q, want %q", in, got, want)
		}
	}
}
