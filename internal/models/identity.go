package models

// Identity is a verified identity asserted by the external identity provider.
// TokenIdentifier is stable across sessions and links the identity to a User.
type Identity struct {
	TokenIdentifier string
	Name            string
	Email           string
	PictureURL      string
}
