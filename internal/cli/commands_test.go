package cli

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/lockboxhq/lockbox/internal/model"
	"github.com/lockboxhq/lockbox/internal/session"
	"github.com/lockboxhq/lockbox/internal/vault"
)

func testVault(t *testing.T) *vault.Vault {
	t.Helper()
	v, err := vault.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open vault: %v", err)
	}
	t.Cleanup(func() { v.Close() })
	for _, e := range []*model.Entry{
		{ID: "id-1", Title: "Bank", Username: "alice", Secret: "hunter2"},
		{ID: "id-2", Title: "Mail", Username: "bob", Secret: "s3cret"},
		{ID: "id-3", Title: "Old", Recycled: true},
	} {
		if err := v.AddEntry(e); err != nil {
			t.Fatalf("add entry: %v", err)
		}
	}
	return v
}

func TestListEntries(t *testing.T) {
	v := testVault(t)
	var out bytes.Buffer
	if err := listEntries(v, &out, false); err != nil {
		t.Fatalf("ls: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Bank") || !strings.Contains(got, "Mail") {
		t.Fatalf("listing incomplete: %s", got)
	}
	if strings.Contains(got, "Old") {
		t.Fatalf("recycled entry listed by default: %s", got)
	}

	out.Reset()
	if err := listEntries(v, &out, true); err != nil {
		t.Fatalf("ls -a: %v", err)
	}
	if !strings.Contains(out.String(), "Old") {
		t.Fatalf("recycled entry missing with -a: %s", out.String())
	}
}

func TestShowEntry(t *testing.T) {
	v := testVault(t)
	var out bytes.Buffer
	if err := showEntry(v, &out, "Bank", false); err != nil {
		t.Fatalf("show: %v", err)
	}
	if strings.Contains(out.String(), "hunter2") {
		t.Fatalf("secret printed without -s: %s", out.String())
	}

	out.Reset()
	if err := showEntry(v, &out, "id-1", true); err != nil {
		t.Fatalf("show -s: %v", err)
	}
	if !strings.Contains(out.String(), "hunter2") {
		t.Fatalf("secret missing with -s: %s", out.String())
	}

	if err := showEntry(v, &out, "nope", false); err == nil {
		t.Fatal("missing entry accepted")
	}
}

func TestShowEntry_ResolvesReferences(t *testing.T) {
	v := testVault(t)
	ref := &model.Entry{ID: "id-4", Title: "Alias", Secret: vault.Placeholder("id-1")}
	if err := v.AddEntry(ref); err != nil {
		t.Fatalf("add: %v", err)
	}
	var out bytes.Buffer
	if err := showEntry(v, &out, "Alias", true); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out.String(), "hunter2") {
		t.Fatalf("reference not resolved: %s", out.String())
	}
}

func TestRemoveEntries(t *testing.T) {
	v := testVault(t)
	var out bytes.Buffer
	if err := removeEntries(v, &out, []string{"Bank"}, false); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if n, _ := v.CountEntries(false); n != 1 {
		t.Fatalf("expected 1 visible entry, got %d", n)
	}

	if err := removeEntries(v, &out, []string{"Mail"}, true); err != nil {
		t.Fatalf("rm -p: %v", err)
	}
	if _, err := v.Entry("id-2"); err == nil {
		t.Fatal("permanently removed entry still present")
	}
}

func TestRestoreEntries(t *testing.T) {
	v := testVault(t)
	var out bytes.Buffer

	// By title of a recycled entry, which plain lookup cannot see.
	if err := restoreEntries(v, &out, []string{"Old"}); err != nil {
		t.Fatalf("restore: %v", err)
	}
	e, err := v.Entry("id-3")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if e.Recycled {
		t.Fatal("entry still recycled after restore")
	}

	// Round trip: recycle by command, restore by ID.
	if err := removeEntries(v, &out, []string{"Bank"}, false); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if err := restoreEntries(v, &out, []string{"id-1"}); err != nil {
		t.Fatalf("restore by id: %v", err)
	}
	if n, _ := v.CountEntries(false); n != 3 {
		t.Fatalf("expected 3 visible entries, got %d", n)
	}

	if err := restoreEntries(v, &out, []string{"Bank"}); err == nil {
		t.Fatal("restoring a live entry by title should fail")
	}
}

func TestBackupRoundTrip(t *testing.T) {
	v := testVault(t)
	path := filepath.Join(t.TempDir(), "vault.lbx")
	var out bytes.Buffer
	if err := backupWrite(v, &out, path); err != nil {
		t.Fatalf("backup: %v", err)
	}

	fresh, err := vault.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { fresh.Close() })
	if err := backupImport(fresh, &out, path); err != nil {
		t.Fatalf("import: %v", err)
	}
	if n, _ := fresh.CountEntries(true); n != 3 {
		t.Fatalf("expected 3 entries after import, got %d", n)
	}
}

func TestHasFlag(t *testing.T) {
	found, rest := hasFlag([]string{"-s", "Bank"}, "-s", "--secret")
	if !found || !reflect.DeepEqual(rest, []string{"Bank"}) {
		t.Fatalf("hasFlag = %v %v", found, rest)
	}
	found, rest = hasFlag([]string{"Bank"}, "-s")
	if found || !reflect.DeepEqual(rest, []string{"Bank"}) {
		t.Fatalf("hasFlag = %v %v", found, rest)
	}
}

func TestInteractiveRegistry(t *testing.T) {
	reg := session.NewRegistry()
	registerInteractive(reg)
	for _, name := range []string{"ls", "show", "rm", "restore", "clip", "backup", "open", "close", "quit", "help"} {
		if _, ok := reg.Lookup(name); !ok {
			t.Errorf("command %s not registered", name)
		}
	}

	// Vault-bound commands refuse to run without an open vault.
	cmd, _ := reg.Lookup("ls")
	if err := cmd.Run(&session.Context{Out: &bytes.Buffer{}}, nil); err == nil {
		t.Fatal("ls ran without a vault")
	}
}
