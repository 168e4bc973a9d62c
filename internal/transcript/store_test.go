package transcript

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/olcay-sar/discord-bot-gemini/llm"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "chat_history.json"))
}

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	store := tempStore(t)
	if recs := store.Load(); len(recs) != 0 {
		t.Fatalf("expected empty history, got %d records", len(recs))
	}
}

func TestLoadMalformedFileReturnsEmpty(t *testing.T) {
	store := tempStore(t)
	if err := os.WriteFile(store.Path(), []byte("{{{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if recs := store.Load(); len(recs) != 0 {
		t.Fatalf("expected empty history for malformed file, got %d records", len(recs))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := tempStore(t)
	in := []Record{
		{Role: RoleUser, Parts: []string{"Nevares: hello"}},
		{Role: RoleModel, Parts: []string{"Hello there!"}},
	}
	if err := store.Save(in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got := store.Load()
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("Load() = %+v, want %+v", got, in)
	}
}

func TestSaveIsIdempotentOnUnchangedHistory(t *testing.T) {
	store := tempStore(t)
	recs := []Record{{Role: RoleUser, Parts: []string{"hi"}}}
	if err := store.Save(recs); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(store.Load()); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Fatalf("load-then-save changed bytes:\n%s\nvs\n%s", first, second)
	}
}

func TestClear(t *testing.T) {
	store := tempStore(t)
	if err := store.Save([]Record{{Role: RoleUser, Parts: []string{"x"}}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if recs := store.Load(); len(recs) != 0 {
		t.Fatalf("expected empty history after Clear, got %d records", len(recs))
	}
	// Clearing again is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear() error = %v", err)
	}
}

func TestFromTurnsDropsMediaParts(t *testing.T) {
	turns := []llm.Turn{
		{Role: llm.RoleUser, Parts: []llm.Part{
			llm.TextPart("look at this"),
			llm.MediaPart("image/png", []byte{0x89}),
		}},
		{Role: llm.RoleModel, Parts: []llm.Part{llm.TextPart("a nice image")}},
	}
	recs := FromTurns(turns)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if !reflect.DeepEqual(recs[0].Parts, []string{"look at this"}) {
		t.Fatalf("media part leaked into persistence: %+v", recs[0].Parts)
	}
}

func TestToTurnsRestoresRolesAndText(t *testing.T) {
	recs := []Record{
		{Role: RoleUser, Parts: []string{"hi"}},
		{Role: RoleModel, Parts: []string{"hello"}},
	}
	turns := ToTurns(recs)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != llm.RoleUser || turns[1].Role != llm.RoleModel {
		t.Fatalf("roles not restored: %v, %v", turns[0].Role, turns[1].Role)
	}
	if turns[1].Parts[0].Text != "hello" {
		t.Fatalf("text not restored: %+v", turns[1].Parts)
	}
}
