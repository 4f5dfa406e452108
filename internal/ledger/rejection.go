package ledger

import "errors"

type RejectionKind string

const (
	KindValidation    RejectionKind = "validation"
	KindAuthorization RejectionKind = "authorization"
	KindStore         RejectionKind = "store"
)

// Rejection is the failure outcome of a ledger operation. Message is safe to
// show to the caller; Kind is for the caller's dispatch, never the user.
type Rejection struct {
	Kind    RejectionKind `json:"kind"`
	Message string        `json:"message"`
}

func (r *Rejection) Error() string {
	return r.Message
}

func NewRejection(kind RejectionKind, message string) *Rejection {
	return &Rejection{Kind: kind, Message: message}
}

func IsValidation(err error) bool {
	return kindOf(err) == KindValidation
}

func IsAuthorization(err error) bool {
	return kindOf(err) == KindAuthorization
}

func IsStore(err error) bool {
	return kindOf(err) == KindStore
}

func kindOf(err error) RejectionKind {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Kind
	}
	return ""
}
