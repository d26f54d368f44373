package repositories

import (
	"context"
	"errors"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
)

// ErrNoteNotFound is returned when a note id does not resolve to a stored note.
var ErrNoteNotFound = errors.New("note not found")

// NoteRepository defines data access methods for persisted meeting notes.
type NoteRepository interface {
	// Save persists a note. The repository assigns the ID when it is empty.
	Save(ctx context.Context, note *entities.Note) error
	// List returns all notes, newest first.
	List(ctx context.Context) ([]*entities.Note, error)
	// Get returns a note by id, or ErrNoteNotFound.
	Get(ctx context.Context, id string) (*entities.Note, error)
	// Delete removes a note by id, or returns ErrNoteNotFound.
	Delete(ctx context.Context, id string) error
}
