// Package identity is the boundary to the external identity provider. The
// core is only ever invoked after a non-nil user has been resolved.
package identity

import (
	"context"
	"os"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Unsubscribe cancels an auth-state subscription.
type Unsubscribe func()

// Provider mirrors the external session provider's contract.
type Provider interface {
	// CurrentUser resolves the signed-in user, or nil when signed out.
	CurrentUser(ctx context.Context) (*User, error)
	// OnAuthStateChange invokes the callback with the new user (nil on sign
	// out) until unsubscribed.
	OnAuthStateChange(callback func(*User)) Unsubscribe
}

// StaticProvider is a fixed local user, enough to run the CLI and worker
// without a real identity provider. Auth state never changes.
type StaticProvider struct {
	User User
}

// NewStaticProviderFromEnv reads FINTRACK_USER_ID, defaulting to "local".
func NewStaticProviderFromEnv() *StaticProvider {
	id := os.Getenv("FINTRACK_USER_ID")
	if id == "" {
		id = "local"
	}
	return &StaticProvider{User: User{ID: id}}
}

func (p *StaticProvider) CurrentUser(context.Context) (*User, error) {
	u := p.User
	return &u, nil
}

func (p *StaticProvider) OnAuthStateChange(func(*User)) Unsubscribe {
	return func() {}
}
