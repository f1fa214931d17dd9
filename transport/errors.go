package transport

import "fmt"

// RejectionCode classifies why an outcall failed, mirroring the reject codes
// of the platforms that provide HTTP outcalls as a system primitive.
type RejectionCode int

const (
	NoError RejectionCode = iota
	SysFatal
	SysTransient
	DestinationInvalid
	CanisterReject
	CanisterError
	Unknown
)

func (c RejectionCode) String() string {
	switch c {
	case NoError:
		return "NoError"
	case SysFatal:
		return "SysFatal"
	case SysTransient:
		return "SysTransient"
	case DestinationInvalid:
		return "DestinationInvalid"
	case CanisterReject:
		return "CanisterReject"
	case CanisterError:
		return "CanisterError"
	default:
		return "Unknown"
	}
}

type Error struct {
	Code    RejectionCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
