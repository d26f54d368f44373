package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
	"github.com/adhikari10/AI-Meeting-Notes/domain/repositories"
)

// NoteRepository stores notes in a MongoDB collection.
type NoteRepository struct {
	collection *mongo.Collection
}

var _ repositories.NoteRepository = (*NoteRepository)(nil)

// NewNoteRepository creates a MongoDB-backed note repository.
func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{collection: db.Collection("notes")}
}

// Save implements repositories.NoteRepository.
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

	doc := bson.M{
		"title":      note.Title,
		"created_at": note.CreatedAt,
		"duration":   note.Duration,
		"source":     note.Source,
		"transcript": note.Transcript,
		"summary":    note.Summary,
		"key_points": note.KeyPoints,
		"actions":    note.Actions,
		"decisions":  note.Decisions,
	}

	if note.ID == "" {
		result, err := r.collection.InsertOne(ctx, doc)
		if err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}
		if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
			note.ID = oid.Hex()
		}
		return nil
	}

	objectID, err := primitive.ObjectIDFromHex(note.ID)
	if err != nil {
		return fmt.Errorf("invalid note ID format: %w", err)
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": doc})
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNoteNotFound
	}
	return nil
}

// List implements repositories.NoteRepository.
func (r *NoteRepository) List(ctx context.Context) ([]*entities.Note, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer cursor.Close(ctx)

	var notes []*entities.Note
	for cursor.Next(ctx) {
		var doc noteDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode note: %w", err)
		}
		notes = append(notes, doc.toEntity())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return notes, nil
}

// Get implements repositories.NoteRepository.
func (r *NoteRepository) Get(ctx context.Context, id string) (*entities.Note, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNoteNotFound
	}

	var doc noteDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note %s: %w", id, err)
	}
	return doc.toEntity(), nil
}

// Delete implements repositories.NoteRepository.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repositories.ErrNoteNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete note %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return repositories.ErrNoteNotFound
	}
	return nil
}

// noteDocument mirrors the stored shape so the ObjectID round-trips through
// the string entity ID.
type noteDocument struct {
	ID         primitive.ObjectID  `bson:"_id"`
	Title      string              `bson:"title"`
	CreatedAt  time.Time           `bson:"created_at"`
	Duration   string              `bson:"duration"`
	Source     entities.NoteSource `bson:"source"`
	Transcript string              `bson:"transcript"`
	Summary    string              `bson:"summary"`
	KeyPoints  []string            `bson:"key_points"`
	Actions    []string            `bson:"actions"`
	Decisions  []string            `bson:"decisions"`
}

func (d *noteDocument) toEntity() *entities.Note {
	return &entities.Note{
		ID:         d.ID.Hex(),
		Title:      d.Title,
		CreatedAt:  d.CreatedAt,
		Duration:   d.Duration,
		Source:     d.Source,
		Transcript: d.Transcript,
		Summary:    d.Summary,
		KeyPoints:  d.KeyPoints,
		Actions:    d.Actions,
		Decisions:  d.Decisions,
	}
}
