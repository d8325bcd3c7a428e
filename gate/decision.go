package gate

import (
	"k8s.io/apiserver/pkg/authentication/user"
)

// Outcome is the class of a Decision.
type Outcome int

const (
	Allow Outcome = iota
	Unauthenticated
	Unauthorized
	InternalError
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Unauthenticated:
		return "unauthenticated"
	case Unauthorized:
		return "unauthorized"
	case InternalError:
		return "internal_error"
	}
	return "unknown"
}

// Decision is the result of evaluating one request.
type Decision struct {
	Outcome Outcome
	// User is the reviewed identity. It is nil for loopback callers and for
	// any outcome reached before the authority named a user.
	User user.Info
	// Reason explains a denial, for logs only.
	Reason string
	// Err is the failure detail of an InternalError. It is never sent to
	// the caller.
	Err error
}

func allow(u user.Info, reason string) Decision {
	return Decision{Outcome: Allow, User: u, Reason: reason}
}

func unauthenticated(reason string) Decision {
	return Decision{Outcome: Unauthenticated, Reason: reason}
}

func unauthorized(u user.Info, reason string) Decision {
	return Decision{Outcome: Unauthorized, User: u, Reason: reason}
}

func internalError(err error) Decision {
	return Decision{Outcome: InternalError, Reason: "token review failed", Err: err}
}
