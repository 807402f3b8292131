package domain

import "fmt"

// PartialWriteError is returned when one back-reference write succeeded and
// the following one failed, leaving the two lists out of step with the
// exercise document.
type PartialWriteError struct {
	ExerciseID string
	Op         string
	Written    string
	Failed     string
	Err        error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%s exercise %s: %s updated but %s failed: %v", e.Op, e.ExerciseID, e.Written, e.Failed, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}
