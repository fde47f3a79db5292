package apperror

import "errors"

// ErrorKind groups application errors by how the edge handler reacts to them.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindNotFound    ErrorKind = "not_found"
	KindCapacity    ErrorKind = "capacity"
	KindIllegalMove ErrorKind = "illegal_move"
	KindInternal    ErrorKind = "internal"
)

var kinds = []struct {
	kind ErrorKind
	errs []error
}{
	{KindValidation, []error{ErrInvalidPayload, ErrUnknownEvent, ErrRoomIDRequired, ErrNameRequired, ErrAlreadyInRoom, ErrUserIDRequired}},
	{KindNotFound, []error{ErrRoomNotFound, ErrPlayerNotFound, ErrNotRoomMember}},
	{KindCapacity, []error{ErrRoomFull}},
	{KindIllegalMove, []error{
		ErrGameFinished, ErrGameIsNotStarted, ErrNotYourTurn, ErrCellOccupied, ErrInvalidCell,
		ErrRematchNotAllowed, ErrNoRematchRequest,
	}},
}

// Kind classifies err. Anything not produced by this package is internal.
func Kind(err error) ErrorKind {
	for _, k := range kinds {
		for _, target := range k.errs {
			if errors.Is(err, target) {
				return k.kind
			}
		}
	}

	return KindInternal
}
