package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
	"github.com/adhikari10/AI-Meeting-Notes/domain/repositories"
)

// NoteRepository stores one JSON document per note under a directory. The
// note id is the file stem. A filesystem watcher keeps the in-memory index
// fresh when files are added or removed outside the process.
type NoteRepository struct {
	dir     string
	logger  *zap.Logger
	watcher *fsnotify.Watcher

	mu    sync.RWMutex
	index map[string]struct{}
}

var _ repositories.NoteRepository = (*NoteRepository)(nil)

// NewNoteRepository creates the directory if needed and starts the watcher.
func NewNoteRepository(dir string, logger *zap.Logger) (*NoteRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create notes directory: %w", err)
	}

	r := &NoteRepository{
		dir:    dir,
		logger: logger,
		index:  make(map[string]struct{}),
	}
	if err := r.rebuildIndex(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create notes watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch notes directory: %w", err)
	}
	r.watcher = watcher
	go r.watchLoop()

	return r, nil
}

// Close stops the directory watcher.
func (r *NoteRepository) Close() error {
	if r.watcher != nil {
		return r.watcher.Close()
	}
	return nil
}

func (r *NoteRepository) watchLoop() {
	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != ".json" {
				continue
			}
			id := strings.TrimSuffix(filepath.Base(event.Name), ".json")
			switch {
			case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
				r.mu.Lock()
				r.index[id] = struct{}{}
				r.mu.Unlock()
			case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
				r.mu.Lock()
				delete(r.index, id)
				r.mu.Unlock()
				r.logger.Debug("Note removed on disk", zap.String("id", id))
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warn("Notes watcher error", zap.Error(err))
		}
	}
}

func (r *NoteRepository) rebuildIndex() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("failed to read notes directory: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.index = make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		r.index[strings.TrimSuffix(entry.Name(), ".json")] = struct{}{}
	}
	return nil
}

func (r *NoteRepository) path(id string) string {
	return filepath.Join(r.dir, id+".json")
}

// Save implements repositories.NoteRepository. New notes get an id derived
// from source and creation time, matching the on-disk naming users already
// have from older exports.
func (r *NoteRepository) Save(ctx context.Context, note *entities.Note) error {
	if note == nil {
		return errors.New("note cannot be nil")
	}
	if err := note.Validate(); err != nil {
		return err
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	if note.ID == "" {
		note.ID = fmt.Sprintf("meeting_%s_%s", note.Source, note.CreatedAt.Format("20060102_150405"))
	}
	if strings.ContainsAny(note.ID, "/\\") {
		return fmt.Errorf("invalid note id %q", note.ID)
	}

	data, err := json.MarshalIndent(note, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode note: %w", err)
	}
	if err := os.WriteFile(r.path(note.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write note: %w", err)
	}

	r.mu.Lock()
	r.index[note.ID] = struct{}{}
	r.mu.Unlock()
	return nil
}

// List implements repositories.NoteRepository.
func (r *NoteRepository) List(ctx context.Context) ([]*entities.Note, error) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.index))
	for id := range r.index {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	notes := make([]*entities.Note, 0, len(ids))
	for _, id := range ids {
		note, err := r.Get(ctx, id)
		if err != nil {
			// A file may vanish or be malformed between index and read;
			// skip it rather than fail the whole listing.
			r.logger.Warn("Skipping unreadable note", zap.String("id", id), zap.Error(err))
			continue
		}
		notes = append(notes, note)
	}

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}

// Get implements repositories.NoteRepository.
func (r *NoteRepository) Get(ctx context.Context, id string) (*entities.Note, error) {
	if strings.ContainsAny(id, "/\\") {
		return nil, repositories.ErrNoteNotFound
	}

	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, repositories.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to read note %s: %w", id, err)
	}

	var note entities.Note
	if err := json.Unmarshal(data, &note); err != nil {
		return nil, fmt.Errorf("failed to decode note %s: %w", id, err)
	}
	note.ID = id
	return &note, nil
}

// Delete implements repositories.NoteRepository.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	if strings.ContainsAny(id, "/\\") {
		return repositories.ErrNoteNotFound
	}

	if err := os.Remove(r.path(id)); err != nil {
		if os.IsNotExist(err) {
			return repositories.ErrNoteNotFound
		}
		return fmt.Errorf("failed to delete note %s: %w", id, err)
	}

	r.mu.Lock()
	delete(r.index, id)
	r.mu.Unlock()
	return nil
}
