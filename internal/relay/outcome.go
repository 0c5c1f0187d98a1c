package relay

import "fmt"

// Kind tags the variant of an Outcome.
type Kind int

const (
	Success Kind = iota
	ApplicationFailure
	TransportFailure
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case ApplicationFailure:
		return "application_failure"
	case TransportFailure:
		return "transport_failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// FailureKind narrows a TransportFailure.
type FailureKind string

const (
	FailureNone    FailureKind = ""
	FailureNetwork FailureKind = "network"
	FailureHTTP    FailureKind = "http"
	FailureUnknown FailureKind = "unknown"
)

// DefaultRejection is logged when the relay rejects a submission without
// saying why. It is never shown to the visitor.
const DefaultRejection = "Failed to send message"

// Outcome is the normalized result of one submission attempt.
type Outcome struct {
	Kind Kind
	// Name of the submitter, set on Success.
	Name string
	// Message from the relay, set on ApplicationFailure.
	Message string
	Failure FailureKind
	// StatusCode is set for FailureHTTP.
	StatusCode int
}

func Succeeded(name string) Outcome {
	return Outcome{Kind: Success, Name: name}
}

// Rejected builds an ApplicationFailure. message may be empty.
func Rejected(message string) Outcome {
	return Outcome{Kind: ApplicationFailure, Message: message}
}

func Failed(kind FailureKind, status int) Outcome {
	return Outcome{Kind: TransportFailure, Failure: kind, StatusCode: status}
}

func (o Outcome) OK() bool {
	return o.Kind == Success
}

func (o Outcome) String() string {
	switch o.Kind {
	case ApplicationFailure:
		if o.Message == "" {
			return fmt.Sprintf("%s: %s", o.Kind, DefaultRejection)
		}
		return fmt.Sprintf("%s: %s", o.Kind, o.Message)
	case TransportFailure:
		if o.StatusCode != 0 {
			return fmt.Sprintf("%s(%s %d)", o.Kind, o.Failure, o.StatusCode)
		}
		return fmt.Sprintf("%s(%s)", o.Kind, o.Failure)
	default:
		return o.Kind.String()
	}
}
