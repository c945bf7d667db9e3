package vault

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lockboxhq/lockbox/internal/model"
)

func testVault(t *testing.T) *Vault {
	t.Helper()
	v, err := Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory vault: %v", err)
	}
	t.Cleanup(func() { v.Close() })
	return v
}

func mustAdd(t *testing.T, v *Vault, e *model.Entry) *model.Entry {
	t.Helper()
	if err := v.AddEntry(e); err != nil {
		t.Fatalf("add entry %q: %v", e.Title, err)
	}
	return e
}

func TestOpen_UnsupportedType(t *testing.T) {
	if _, err := Open("oracle", "dsn"); err == nil {
		t.Fatalf("expected error for unsupported database type")
	}
}

func TestEntries_CRUDAndRecycle(t *testing.T) {
	v := testVault(t)
	e := mustAdd(t, v, &model.Entry{Title: "Bank", Username: "alice", Secret: "s3cret"})
	if e.ID == "" {
		t.Fatalf("AddEntry did not assign an ID")
	}

	got, err := v.Entry(e.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.Title != "Bank" || got.Username != "alice" {
		t.Fatalf("unexpected entry: %+v", got)
	}

	got.Secret = "changed"
	if err := v.UpdateEntry(got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ := v.Entry(e.ID)
	if again.Secret != "changed" {
		t.Fatalf("update not persisted")
	}

	if err := v.RecycleEntry(again); err != nil {
		t.Fatalf("recycle: %v", err)
	}
	visible, _ := v.Entries(false)
	if len(visible) != 0 {
		t.Fatalf("recycled entry still listed: %v", visible)
	}
	all, _ := v.Entries(true)
	if len(all) != 1 {
		t.Fatalf("recycled entry vanished from full listing")
	}

	if err := v.RestoreEntry(again); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if n, _ := v.CountEntries(false); n != 1 {
		t.Fatalf("expected 1 visible entry after restore, got %d", n)
	}

	if err := v.DeleteEntry(again); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := v.Entry(e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFindEntry_ByIDThenTitle(t *testing.T) {
	v := testVault(t)
	e := mustAdd(t, v, &model.Entry{Title: "Mail", Secret: "x"})

	if got, err := v.FindEntry(e.ID); err != nil || got.ID != e.ID {
		t.Fatalf("find by id failed: %v", err)
	}
	if got, err := v.FindEntry("Mail"); err != nil || got.ID != e.ID {
		t.Fatalf("find by title failed: %v", err)
	}
	if _, err := v.FindEntry("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReferences_LookupResolveRewrite(t *testing.T) {
	v := testVault(t)
	target := mustAdd(t, v, &model.Entry{Title: "Wifi", Secret: "hunter2"})
	ref := mustAdd(t, v, &model.Entry{Title: "Router", Secret: Placeholder(target.ID)})
	mustAdd(t, v, &model.Entry{Title: "Unrelated", Secret: "zzz"})

	refs, err := v.ReferencesTo(target)
	if err != nil {
		t.Fatalf("references: %v", err)
	}
	if len(refs) != 1 || refs[0].ID != ref.ID {
		t.Fatalf("expected exactly the referencing entry, got %v", refs)
	}

	resolved, err := v.Resolve(ref.Secret)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != "hunter2" {
		t.Fatalf("expected resolved secret 'hunter2', got %q", resolved)
	}

	if err := v.ReplaceReferences(ref, target); err != nil {
		t.Fatalf("replace references: %v", err)
	}
	rewritten, _ := v.Entry(ref.ID)
	if rewritten.Secret != "hunter2" {
		t.Fatalf("reference not rewritten: %q", rewritten.Secret)
	}
}

func TestReferences_CallerSuppliedIDsResolve(t *testing.T) {
	v := testVault(t)
	target := mustAdd(t, v, &model.Entry{ID: "prod db", Title: "Prod DB", Secret: "hunter2"})
	ref := mustAdd(t, v, &model.Entry{Title: "Alias", Secret: Placeholder(target.ID)})

	resolved, err := v.Resolve(ref.Secret)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != "hunter2" {
		t.Fatalf("non-uuid reference left unresolved: %q", resolved)
	}

	refs, err := v.ReferencesTo(target)
	if err != nil {
		t.Fatalf("references: %v", err)
	}
	if len(refs) != 1 || refs[0].ID != ref.ID {
		t.Fatalf("expected exactly the referencing entry, got %v", refs)
	}
}

func TestReferences_RecycledEntriesDoNotCount(t *testing.T) {
	v := testVault(t)
	target := mustAdd(t, v, &model.Entry{Title: "A", Secret: "v"})
	ref := mustAdd(t, v, &model.Entry{Title: "B", Notes: Placeholder(target.ID)})
	if err := v.RecycleEntry(ref); err != nil {
		t.Fatalf("recycle: %v", err)
	}
	refs, err := v.ReferencesTo(target)
	if err != nil {
		t.Fatalf("references: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("recycled entry counted as a reference")
	}
}

func TestResolve_ChainAndCycle(t *testing.T) {
	v := testVault(t)
	a := mustAdd(t, v, &model.Entry{Title: "A", Secret: "leaf"})
	b := mustAdd(t, v, &model.Entry{Title: "B", Secret: Placeholder(a.ID)})
	c := mustAdd(t, v, &model.Entry{Title: "C", Secret: Placeholder(b.ID)})

	got, err := v.Resolve(c.Secret)
	if err != nil {
		t.Fatalf("resolve chain: %v", err)
	}
	if got != "leaf" {
		t.Fatalf("expected 'leaf', got %q", got)
	}

	// Cycle: resolution must terminate.
	a.Secret = Placeholder(c.ID)
	if err := v.UpdateEntry(a); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := v.Resolve(c.Secret); err != nil {
		t.Fatalf("cyclic resolve errored: %v", err)
	}
}

func TestVaultName(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "team-secrets.db")
	v, err := Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open file-backed vault: %v", err)
	}
	defer v.Close()

	if got := v.Name(); got != "team-secrets" {
		t.Fatalf("expected fallback name 'team-secrets', got %q", got)
	}
	if err := v.SetName("Team Secrets"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if got := v.Name(); got != "Team Secrets" {
		t.Fatalf("expected stored name, got %q", got)
	}
}

func TestBackup_RoundTrip(t *testing.T) {
	v := testVault(t)
	mustAdd(t, v, &model.Entry{Title: "One", Secret: "1"})
	e2 := mustAdd(t, v, &model.Entry{Title: "Two", Secret: "2"})
	if err := v.RecycleEntry(e2); err != nil {
		t.Fatalf("recycle: %v", err)
	}

	var buf bytes.Buffer
	if err := v.WriteBackup(&buf); err != nil {
		t.Fatalf("write backup: %v", err)
	}

	restored := testVault(t)
	added, err := restored.ImportBackup(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 entries imported, got %d", added)
	}
	if n, _ := restored.CountEntries(true); n != 2 {
		t.Fatalf("expected 2 entries after import, got %d", n)
	}

	// Importing again is a no-op.
	added, err = restored.ImportBackup(bytes.NewReader(buf.Bytes()))
	if err != nil || added != 0 {
		t.Fatalf("expected idempotent import, got added=%d err=%v", added, err)
	}
}

func TestPassphrase_Keycheck(t *testing.T) {
	v := testVault(t)

	// No keycheck set: anything passes.
	if ok, err := v.VerifyPassphrase("whatever"); err != nil || !ok {
		t.Fatalf("expected open vault without keycheck, got ok=%v err=%v", ok, err)
	}

	if err := v.SetPassphrase("correct horse"); err != nil {
		t.Fatalf("set passphrase: %v", err)
	}
	if ok, _ := v.VerifyPassphrase("correct horse"); !ok {
		t.Fatalf("correct passphrase rejected")
	}
	if ok, _ := v.VerifyPassphrase("wrong"); ok {
		t.Fatalf("wrong passphrase accepted")
	}
}
