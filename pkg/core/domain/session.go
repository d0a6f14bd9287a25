package domain

// SessionToken is the subject/role pair read from a request.
// Both values are set or both are empty.
type SessionToken struct {
	SubjectID string
	Role      string
}

// Present reports whether the request carries a usable session
func (t SessionToken) Present() bool {
	return t.SubjectID != ""
}

type DecisionReason string

const (
	ReasonAllowed              DecisionReason = "allowed"
	ReasonAlreadyAuthenticated DecisionReason = "already_authenticated"
	ReasonLoginRequired        DecisionReason = "login_required"
	ReasonInsufficientRole     DecisionReason = "insufficient_role"
)

// AccessDecision is the outcome of the access gate. It is not an error.
type AccessDecision struct {
	Allow      bool
	RedirectTo string
	ReturnTo   string // Only set for login redirects
	Reason     DecisionReason
}
