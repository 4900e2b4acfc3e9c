package fix

import (
	"errors"
	"fmt"
)

var (
	ErrConfig          = errors.New("fix: configuration error")
	ErrFieldConversion = errors.New("fix: field conversion error")
	ErrFieldNotFound   = errors.New("fix: field not found")
	ErrInvalidMessage  = errors.New("fix: invalid message")

	ErrInvalidMessageType          = errors.New("fix: invalid message type")
	ErrUnsupportedVersion          = errors.New("fix: unsupported version")
	ErrInvalidTagNumber            = errors.New("fix: invalid tag number")
	ErrTagNotDefinedForMessage     = errors.New("fix: tag not defined for this message type")
	ErrIncorrectTagValue           = errors.New("fix: value is incorrect (out of range) for this tag")
	ErrIncorrectDataFormat         = errors.New("fix: incorrect data format for value")
	ErrNoTagValue                  = errors.New("fix: tag specified without a value")
	ErrRequiredTagMissing          = errors.New("fix: required tag missing")
	ErrRepeatingGroupCountMismatch = errors.New("fix: incorrect NumInGroup count for repeating group")
	ErrTagOutOfOrder               = errors.New("fix: tag specified out of required order")
)

// ValidationError reports why a message failed data dictionary validation.
// Reason is one of the sentinel errors above, so callers can use errors.Is.
type ValidationError struct {
	Reason  error
	Tag     int
	MsgType string
}

func newValidationError(reason error, tag int, msgType string) *ValidationError {
	return &ValidationError{Reason: reason, Tag: tag, MsgType: msgType}
}

func (e *ValidationError) Error() string {
	if e.Tag == 0 {
		return fmt.Sprintf("%s (msg_type=%q)", e.Reason, e.MsgType)
	}
	return fmt.Sprintf("%s (tag=%d, msg_type=%q)", e.Reason, e.Tag, e.MsgType)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}
