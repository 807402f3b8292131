package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrExerciseNotFound  = errors.New("exercise not found")
	ErrDuplicateExercise = errors.New("exercise already registered")
)

// Exercise is a single trainable movement. TypeExercise and GroupMuscle hold
// the hex IDs of the referenced ExerciseType and GroupMuscle documents.
type Exercise struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"` // Unique Index
	Description  string    `json:"description" bson:"description"`
	Video        string    `json:"video" bson:"video"`
	Cover        string    `json:"cover" bson:"cover"`
	Miniature    string    `json:"miniature" bson:"miniature"`
	Image        string    `json:"image" bson:"image"`
	GroupMuscle  string    `json:"groupmuscle" bson:"groupmuscle"`
	TypeExercise string    `json:"typeexercise" bson:"typeexercise"`
	CreatedAt    time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updatedAt"`
}

// ExerciseView is an Exercise with both references joined to their names
type ExerciseView struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Video        string       `json:"video"`
	Cover        string       `json:"cover"`
	Miniature    string       `json:"miniature"`
	Image        string       `json:"image"`
	GroupMuscle  *CategoryRef `json:"groupmuscle"`
	TypeExercise *CategoryRef `json:"typeexercise"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// MediaFields carries the media references set by an upload.
// Empty fields are left untouched.
type MediaFields struct {
	Image     string
	Cover     string
	Miniature string
}

// IsEmpty reports whether no media field is set
func (m MediaFields) IsEmpty() bool {
	return m.Image == "" && m.Cover == "" && m.Miniature == ""
}

type ExerciseRepository interface {
	Create(ctx context.Context, exercise *Exercise) error
	GetByID(ctx context.Context, id string) (*Exercise, error)
	FindByName(ctx context.Context, name string) (*Exercise, error)
	List(ctx context.Context) ([]*Exercise, error)
	Update(ctx context.Context, exercise *Exercise) error
	UpdateMedia(ctx context.Context, id string, media MediaFields) error
	Delete(ctx context.Context, id string) error
}
