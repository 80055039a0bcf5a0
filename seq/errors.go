package seq

import (
	"github.com/eluv-io/errors-go"
)

// Reasons identifying the failure classes of the device. Every error returned
// by the package carries one of them in its "reason" field, together with the
// errors-go kind listed next to it.
const (
	ReasonInvalidConfigFormat  = "invalid config format" // errors.K.Invalid
	ReasonInvalidArgument      = "invalid argument"      // errors.K.Invalid
	ReasonOutOfMemory          = "out of memory"         // errors.K.Unavailable
	ReasonUseAfterClose        = "session closed"        // errors.K.Invalid
	ReasonUnsupportedOperation = "unsupported operation" // errors.K.NotImplemented
)

// IsInvalidConfigFormat returns true if the write payload could not be parsed
// into 1 to 3 integers.
func IsInvalidConfigFormat(err error) bool {
	return hasReason(err, errors.K.Invalid, ReasonInvalidConfigFormat)
}

// IsInvalidArgument returns true if a parameter was rejected, e.g. a zero step.
func IsInvalidArgument(err error) bool {
	return hasReason(err, errors.K.Invalid, ReasonInvalidArgument)
}

// IsOutOfMemory returns true if a session buffer could not be allocated.
func IsOutOfMemory(err error) bool {
	return hasReason(err, errors.K.Unavailable, ReasonOutOfMemory)
}

// IsUseAfterClose returns true if the operation was attempted on a closed
// session.
func IsUseAfterClose(err error) bool {
	return hasReason(err, errors.K.Invalid, ReasonUseAfterClose)
}

// IsUnsupportedOperation returns true if the control channel was invoked with
// an unknown command or field.
func IsUnsupportedOperation(err error) bool {
	return hasReason(err, errors.K.NotImplemented, ReasonUnsupportedOperation)
}

func hasReason(err error, kind errors.Kind, reason string) bool {
	if err == nil || !errors.IsKind(kind, err) {
		return false
	}
	r, ok := errors.GetField(err, "reason")
	return ok && r == reason
}
