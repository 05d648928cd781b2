package models

import "errors"

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindFileType
	KindParsing
)

func (k ErrorKind) String() string {
	switch k {
	case KindFileType:
		return "file_type"
	case KindParsing:
		return "parsing"
	default:
		return "internal"
	}
}

// Error is a classified request error. Only file type and parsing errors are
// surfaced to clients as bad requests.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func NewFileTypeError(msg string) error {
	return &Error{Kind: KindFileType, Msg: msg}
}

func NewParsingError(msg string, cause error) error {
	return &Error{Kind: KindParsing, Msg: msg, Err: cause}
}

// KindOf reports the kind of err; unclassified errors are internal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsFileTypeError(err error) bool { return KindOf(err) == KindFileType }

func IsParsingError(err error) bool { return KindOf(err) == KindParsing }
