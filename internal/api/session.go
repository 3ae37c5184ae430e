package api

// Session identifies the caller of a procedure.
type Session interface {
	Authenticated() bool
	UserID() string
}

// Anonymous is the session attached to every call. No identity is
// established at the edge.
type Anonymous struct{}

func (Anonymous) Authenticated() bool { return false }
func (Anonymous) UserID() string      { return "" }

var _ Session = Anonymous{}
