package i18n

import "testing"

func TestT_BasicAndFormatting(t *testing.T) {
	Init("en")
	if GetLang() != "en" {
		t.Fatalf("expected lang 'en', got %q", GetLang())
	}

	if got := T("authz.yes"); got != "[Y]es" {
		t.Fatalf("expected '[Y]es', got %q", got)
	}

	// fmt-style formatting via trailing args
	got := T("authz.remove.refs", "Bank", 2)
	if got != `Entry "Bank" has 2 reference(s).` {
		t.Fatalf("unexpected formatted translation: %q", got)
	}
}

func TestT_UnknownIDFallsBackToID(t *testing.T) {
	Init("en")
	if got := T("does.not.exist"); got != "does.not.exist" {
		t.Fatalf("expected fallback to message ID, got %q", got)
	}
}

func TestSetLang_SwitchesLocale(t *testing.T) {
	SetLang("de")
	defer SetLang("en")
	if got := T("authz.yes"); got != "[J]a" {
		t.Fatalf("expected German translation, got %q", got)
	}
}
