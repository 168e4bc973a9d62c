// Package transcript persists the conversation history as a single JSON
// snapshot. Every save rewrites the whole file, so the durability unit is the
// last successfully completed turn.
package transcript

import (
	"github.com/olcay-sar/discord-bot-gemini/internal/fsstore"
	"github.com/olcay-sar/discord-bot-gemini/llm"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Record is one persisted turn. Only text parts survive persistence; media
// parts are dropped on save, so a restart loses image context.
type Record struct {
	Role  string   `json:"role"`
	Parts []string `json:"parts"`
}

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted history. A missing, unreadable, or malformed
// file is treated as no history, never as an error.
func (s *Store) Load() []Record {
	var recs []Record
	ok, err := fsstore.ReadJSON(s.path, &recs)
	if err != nil || !ok {
		return nil
	}
	return recs
}

// Save atomically replaces the persisted history with the full snapshot.
func (s *Store) Save(recs []Record) error {
	if recs == nil {
		recs = []Record{}
	}
	return fsstore.WriteJSONAtomic(s.path, recs, fsstore.FileOptions{})
}

// Clear removes the persisted history entirely.
func (s *Store) Clear() error {
	return fsstore.Remove(s.path)
}

// FromTurns converts live history to persistable records, keeping text parts
// only.
func FromTurns(turns []llm.Turn) []Record {
	recs := make([]Record, 0, len(turns))
	for _, turn := range turns {
		rec := Record{Role: string(turn.Role), Parts: []string{}}
		for _, part := range turn.Parts {
			if part.IsMedia() {
				continue
			}
			rec.Parts = append(rec.Parts, part.Text)
		}
		recs = append(recs, rec)
	}
	return recs
}

// ToTurns converts persisted records back to live history.
func ToTurns(recs []Record) []llm.Turn {
	turns := make([]llm.Turn, 0, len(recs))
	for _, rec := range recs {
		turn := llm.Turn{Role: llm.Role(rec.Role)}
		for _, text := range rec.Parts {
			turn.Parts = append(turn.Parts, llm.TextPart(text))
		}
		turns = append(turns, turn)
	}
	return turns
}
