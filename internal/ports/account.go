package ports

import "context"

// AccountPort updates account profile fields.
type AccountPort interface {
	// UpdateProfile applies username and display name to the account.
	// Empty fields are left untouched by the backing implementation.
	UpdateProfile(ctx context.Context, userID, username, displayName string) error
}
