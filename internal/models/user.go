package models

// User represents an identity known to the ledger.
//
// Users are created and renamed by the identity sync only. Everything else
// references them by ID.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address.
	Email string `json:"email"`

	// ImageURL is the profile picture URL, empty if the provider has none.
	ImageURL string `json:"imageUrl,omitempty"`

	// TokenIdentifier is the stable subject of the external identity.
	// Identity sync looks users up by it.
	TokenIdentifier string `json:"-"`

	// CreatedAt is the Unix timestamp when the user was first synced.
	CreatedAt int64 `json:"createdAt"`
}
