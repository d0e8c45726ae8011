package config

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestMakeStyle_Tag(t *testing.T) {
	tests := []struct {
		name string
		fg   string
		bg   string
		attr string
		want string
	}{
		{"fg only", "green", "", "", "[green]"},
		{"fg+attr", "green", "", "b", "[green:-:b]"},
		{"fg+bg+attr", "green", "black", "b", "[green:black:b]"},
		{"fg+bg", "white", "blue", "", "[white:blue:-]"},
		{"empty", "", "", "", "[-]"},
		{"attr only", "", "", "d", "[-:-:d]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := makeStyle(tt.fg, tt.bg, tt.attr)
			if got := s.Tag(); got != tt.want {
				t.Errorf("makeStyle(%q,%q,%q).Tag() = %q, want %q", tt.fg, tt.bg, tt.attr, got, tt.want)
			}
		})
	}
}

func TestStyleWrapper_Reset(t *testing.T) {
	tests := []struct {
		name string
		fg   string
		bg   string
		attr string
		want string
	}{
		{"fg only", "green", "", "", "[-]"},
		{"fg+attr", "green", "", "b", "[-:-:-]"},
		{"fg+bg", "green", "black", "", "[-:-:-]"},
		{"empty", "", "", "", "[-]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := makeStyle(tt.fg, tt.bg, tt.attr).Reset(); got != tt.want {
				t.Errorf("Reset() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAttrsToTviewString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"bold", "b"},
		{"bold|underline", "bu"},
		{"dim|italic", "di"},
		{"bold|italic|underline|dim|reverse|blink|strikethrough", "biudrls"},
		{"", ""},
		{"none", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := attrsToTviewString(tt.input); got != tt.want {
				t.Errorf("attrsToTviewString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStyleWrapper_UnmarshalTOML(t *testing.T) {
	var s StyleWrapper
	err := s.UnmarshalTOML(map[string]any{
		"foreground": "red",
		"attributes": "bold|underline",
	})
	if err != nil {
		t.Fatalf("UnmarshalTOML: %v", err)
	}

	fg, _, attrs := s.Style.Decompose()
	if fg != tcell.GetColor("red") {
		t.Errorf("foreground = %v, want red", fg)
	}
	if attrs&tcell.AttrBold == 0 || attrs&tcell.AttrUnderline == 0 {
		t.Errorf("attributes = %v, want bold|underline", attrs)
	}
	if s.Tag() != "[red:-:bu]" {
		t.Errorf("Tag() = %q", s.Tag())
	}
}

func TestStyleWrapper_UnmarshalTOMLRejectsNonTable(t *testing.T) {
	var s StyleWrapper
	if err := s.UnmarshalTOML("red"); err == nil {
		t.Error("expected error for non-table style")
	}
}

func TestBuiltinThemeFallback(t *testing.T) {
	if got := BuiltinTheme("does-not-exist").Preset; got != "default" {
		t.Errorf("unknown preset should fall back to default, got %q", got)
	}
	if got := BuiltinTheme("monokai").Preset; got != "monokai" {
		t.Errorf("got %q, want monokai", got)
	}
}
