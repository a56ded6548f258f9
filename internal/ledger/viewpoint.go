package ledger

// Viewpoint is the user from whose perspective a query is computed.
// It is passed explicitly to every operation.
type Viewpoint struct {
	UserID string
}

// As returns the viewpoint of userID.
func As(userID string) Viewpoint {
	return Viewpoint{UserID: userID}
}

// IsZero reports whether the viewpoint carries no identity.
func (v Viewpoint) IsZero() bool {
	return v.UserID == ""
}
