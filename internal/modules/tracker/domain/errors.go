package domain

import "fmt"

// ErrorKind enumerates every way a tracker operation can be refused.
type ErrorKind int

const (
	KindNoneSelected ErrorKind = iota + 1
	KindDoesNotExist
	KindAlreadyExists
	KindAlreadyRunning
	KindIsNotRunning
	KindNoLogs
)

func (k ErrorKind) String() string {
	switch k {
	case KindNoneSelected:
		return "none_selected"
	case KindDoesNotExist:
		return "does_not_exist"
	case KindAlreadyExists:
		return "already_exists"
	case KindAlreadyRunning:
		return "already_running"
	case KindIsNotRunning:
		return "is_not_running"
	case KindNoLogs:
		return "no_logs"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a recoverable tracker failure. Title is set for the kinds that
// name a tracker (DoesNotExist, AlreadyExists).
type Error struct {
	Kind  ErrorKind
	Title string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNoneSelected:
		return "no tracker selected"
	case KindDoesNotExist:
		return fmt.Sprintf("tracker %q does not exist", e.Title)
	case KindAlreadyExists:
		return fmt.Sprintf("tracker %q already exists", e.Title)
	case KindAlreadyRunning:
		return "tracker is already running"
	case KindIsNotRunning:
		return "tracker is not running"
	case KindNoLogs:
		return "tracker has no logs"
	default:
		return e.Kind.String()
	}
}

// Is matches on kind only, so errors.Is(err, ErrDoesNotExist) holds for any
// title.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

var (
	ErrNoneSelected   = &Error{Kind: KindNoneSelected}
	ErrDoesNotExist   = &Error{Kind: KindDoesNotExist}
	ErrAlreadyExists  = &Error{Kind: KindAlreadyExists}
	ErrAlreadyRunning = &Error{Kind: KindAlreadyRunning}
	ErrIsNotRunning   = &Error{Kind: KindIsNotRunning}
	ErrNoLogs         = &Error{Kind: KindNoLogs}
)

func DoesNotExist(title string) error {
	return &Error{Kind: KindDoesNotExist, Title: title}
}

func AlreadyExists(title string) error {
	return &Error{Kind: KindAlreadyExists, Title: title}
}
