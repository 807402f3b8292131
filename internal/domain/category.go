package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrDuplicateCategory = errors.New("category name already exists")

// ErrReferenceNotFound is matched by every *ReferenceError
var ErrReferenceNotFound = errors.New("reference not found")

// Reference field names as they appear on the exercise document
const (
	RefTypeExercise = "typeexercise"
	RefGroupMuscle  = "groupmuscle"
)

// Category is the shared shape of ExerciseType and GroupMuscle documents.
// Exercises is the back-reference list; only ReferenceIntegrity writes it.
type Category struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Exercises []string  `json:"exercises" bson:"exercises"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`
}

// CategoryRef is the joined form of a reference: id plus name
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryView is a Category whose back-references are resolved to names
type CategoryView struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Exercises []*CategoryRef `json:"exercises"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ReferenceError reports a typeexercise/groupmuscle value that does not
// resolve to an existing document
type ReferenceError struct {
	Field string
	Value string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%q %s not registered", e.Field, e.Value)
}

func (e *ReferenceError) Is(target error) bool {
	return target == ErrReferenceNotFound
}

// BackReferenceStore is the write surface of a back-reference list
type BackReferenceStore interface {
	AddExercise(ctx context.Context, id string, exerciseID string) error
	RemoveExercise(ctx context.Context, id string, exerciseID string) error
}

type CategoryRepository interface {
	BackReferenceStore
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}
