package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// scriptReader replays a fixed sequence of lines, then reports exhaustion.
type scriptReader struct {
	lines []string
	pos   int
}

var errExhausted = errors.New("input closed")

func (r *scriptReader) ReadLine() (string, error) {
	if r.pos >= len(r.lines) {
		return "", errExhausted
	}
	line := r.lines[r.pos]
	r.pos++
	return line, nil
}

func yesNoAliases() [][]string {
	return [][]string{{"y", "yes"}, {"n", "no"}}
}

func TestAsk_MatchesCaseAndWhitespaceInsensitively(t *testing.T) {
	var out bytes.Buffer
	p := New(&scriptReader{lines: []string{"  Y \t"}}, &out)

	got, err := p.Ask("Continue?", []string{"[Y]es", "[N]o"}, yesNoAliases())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected choice 0, got %d", got)
	}
}

func TestAsk_RepromptsOnUnknownResponse(t *testing.T) {
	var out bytes.Buffer
	p := New(&scriptReader{lines: []string{"maybe", "definitely", "no"}}, &out)

	got, err := p.Ask("Continue?", []string{"[Y]es", "[N]o"}, yesNoAliases())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected choice 1, got %d", got)
	}
	if n := strings.Count(out.String(), "Unknown response"); n != 2 {
		t.Fatalf("expected 2 re-prompt notices, got %d: %s", n, out.String())
	}
}

func TestAsk_NeverDefaultsSilently(t *testing.T) {
	var out bytes.Buffer
	// Input runs out after only unmatched tokens: the prompt must cancel,
	// not fall back to any choice.
	p := New(&scriptReader{lines: []string{"x", "z"}}, &out)

	got, err := p.Ask("Continue?", []string{"[Y]es", "[N]o"}, yesNoAliases())
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if got != -1 {
		t.Fatalf("expected -1 on cancellation, got %d", got)
	}
}

func TestAsk_CancelledImmediatelyOnExhaustedInput(t *testing.T) {
	var out bytes.Buffer
	p := New(&scriptReader{}, &out)

	if _, err := p.Ask("Continue?", []string{"[Y]es", "[N]o"}, yesNoAliases()); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestAsk_RendersMessageWithChoices(t *testing.T) {
	var out bytes.Buffer
	p := New(&scriptReader{lines: []string{"y"}}, &out)

	if _, err := p.Ask("Choose action:", []string{"[Y]es", "[N]o"}, yesNoAliases()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Choose action: [Y]es | [N]o") {
		t.Fatalf("unexpected rendering: %q", out.String())
	}
}

func TestAsk_ParallelSliceMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on mismatched labels/aliases")
		}
	}()
	p := New(&scriptReader{}, &bytes.Buffer{})
	p.Ask("?", []string{"only label"}, nil)
}

func TestAskYesNo(t *testing.T) {
	var out bytes.Buffer
	p := New(&scriptReader{lines: []string{"no", "YES"}}, &out)

	ok, err := p.AskYesNo("First?")
	if err != nil || ok {
		t.Fatalf("expected no, got ok=%v err=%v", ok, err)
	}
	ok, err = p.AskYesNo("Second?")
	if err != nil || !ok {
		t.Fatalf("expected yes, got ok=%v err=%v", ok, err)
	}
}
