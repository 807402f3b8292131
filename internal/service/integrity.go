package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mansoorceksport/gympro/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const integrityTracerName = "gympro-integrity"

// ReferenceIntegrity keeps the exercises back-reference lists on ExerciseType
// and GroupMuscle documents in step with the typeexercise/groupmuscle fields
// of every Exercise. It is the only writer of those lists.
//
// Each operation issues at most two independent writes per side with no
// transaction around them. When one write lands and a later one fails the
// result is a *domain.PartialWriteError and a reconciliation warning is logged.
type ReferenceIntegrity struct {
	types   domain.BackReferenceStore
	muscles domain.BackReferenceStore
	tracer  trace.Tracer
}

func NewReferenceIntegrity(types, muscles domain.BackReferenceStore) *ReferenceIntegrity {
	return &ReferenceIntegrity{
		types:   types,
		muscles: muscles,
		tracer:  otel.Tracer(integrityTracerName),
	}
}

// Attach adds exerciseID to the lists of typeID and muscleID.
// Adding is set-like: an ID already present is not duplicated.
func (e *ReferenceIntegrity) Attach(ctx context.Context, exerciseID, typeID, muscleID string) error {
	ctx, span := e.start(ctx, "integrity.attach", exerciseID)
	defer span.End()

	return e.finish(span, e.attach(ctx, exerciseID, typeID, muscleID))
}

func (e *ReferenceIntegrity) attach(ctx context.Context, exerciseID, typeID, muscleID string) error {
	if err := e.types.AddExercise(ctx, typeID, exerciseID); err != nil {
		return referenceErr(domain.RefTypeExercise, typeID, err)
	}
	if err := e.muscles.AddExercise(ctx, muscleID, exerciseID); err != nil {
		return e.partial(&domain.PartialWriteError{
			ExerciseID: exerciseID,
			Op:         "attach",
			Written:    domain.RefTypeExercise + " " + typeID,
			Failed:     domain.RefGroupMuscle + " " + muscleID,
			Err:        referenceErr(domain.RefGroupMuscle, muscleID, err),
		})
	}
	return nil
}

// Detach removes exerciseID from the lists of typeID and muscleID.
// A referenced document that no longer exists is skipped.
func (e *ReferenceIntegrity) Detach(ctx context.Context, exerciseID, typeID, muscleID string) error {
	ctx, span := e.start(ctx, "integrity.detach", exerciseID)
	defer span.End()

	_, err := e.detach(ctx, exerciseID, typeID, muscleID)
	return e.finish(span, err)
}

// detach reports whether any list was written, so callers can tell a clean
// failure from a partial one
func (e *ReferenceIntegrity) detach(ctx context.Context, exerciseID, typeID, muscleID string) (bool, error) {
	written := false

	if typeID != "" {
		err := e.types.RemoveExercise(ctx, typeID, exerciseID)
		switch {
		case err == nil:
			written = true
		case isMissing(err):
			log.Printf("Warning: %s %s is gone, skipping back-reference cleanup for exercise %s", domain.RefTypeExercise, typeID, exerciseID)
		default:
			return false, fmt.Errorf("failed to detach %s %s: %w", domain.RefTypeExercise, typeID, err)
		}
	}

	if muscleID != "" {
		err := e.muscles.RemoveExercise(ctx, muscleID, exerciseID)
		switch {
		case err == nil:
			written = true
		case isMissing(err):
			log.Printf("Warning: %s %s is gone, skipping back-reference cleanup for exercise %s", domain.RefGroupMuscle, muscleID, exerciseID)
		default:
			err = fmt.Errorf("failed to detach %s %s: %w", domain.RefGroupMuscle, muscleID, err)
			if written {
				return true, e.partial(&domain.PartialWriteError{
					ExerciseID: exerciseID,
					Op:         "detach",
					Written:    domain.RefTypeExercise + " " + typeID,
					Failed:     domain.RefGroupMuscle + " " + muscleID,
					Err:        err,
				})
			}
			return false, err
		}
	}

	return written, nil
}

// Reassign moves exerciseID from the previous type/muscle lists to the new
// ones. A reference that did not change is only re-attached, which keeps
// exactly one occurrence and restores an entry that had gone missing.
func (e *ReferenceIntegrity) Reassign(ctx context.Context, exerciseID, prevTypeID, prevMuscleID, newTypeID, newMuscleID string) error {
	ctx, span := e.start(ctx, "integrity.reassign", exerciseID)
	defer span.End()
	span.SetAttributes(
		attribute.Bool("integrity.type_changed", prevTypeID != newTypeID),
		attribute.Bool("integrity.muscle_changed", prevMuscleID != newMuscleID),
	)

	staleType, staleMuscle := prevTypeID, prevMuscleID
	if staleType == newTypeID {
		staleType = ""
	}
	if staleMuscle == newMuscleID {
		staleMuscle = ""
	}

	detached, err := e.detach(ctx, exerciseID, staleType, staleMuscle)
	if err != nil {
		return e.finish(span, err)
	}

	err = e.attach(ctx, exerciseID, newTypeID, newMuscleID)
	if err == nil {
		return e.finish(span, nil)
	}

	var partial *domain.PartialWriteError
	if errors.As(err, &partial) {
		partial.Op = "reassign"
		return e.finish(span, partial)
	}
	if detached {
		return e.finish(span, e.partial(&domain.PartialWriteError{
			ExerciseID: exerciseID,
			Op:         "reassign",
			Written:    "previous back-references",
			Failed:     "attach to new references",
			Err:        err,
		}))
	}
	return e.finish(span, err)
}

func (e *ReferenceIntegrity) start(ctx context.Context, name, exerciseID string) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("exercise.id", exerciseID)))
}

func (e *ReferenceIntegrity) finish(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (e *ReferenceIntegrity) partial(err *domain.PartialWriteError) error {
	log.Printf("Warning: back-reference divergence, reconciliation needed: %v", err)
	return err
}

func isMissing(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID)
}

func referenceErr(field, value string, err error) error {
	if isMissing(err) {
		return &domain.ReferenceError{Field: field, Value: value}
	}
	return fmt.Errorf("failed to attach %s %s: %w", field, value, err)
}
