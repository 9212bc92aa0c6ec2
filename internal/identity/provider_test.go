package identity

import (
	"context"
	"testing"
)

func TestStaticProviderFromEnv(t *testing.T) {
	t.Setenv("FINTRACK_USER_ID", "")
	p := NewStaticProviderFromEnv()
	u, err := p.CurrentUser(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if u == nil || u.ID != "local" {
		t.Fatalf("user = %+v, want implicit local user", u)
	}

	t.Setenv("FINTRACK_USER_ID", "alice")
	p = NewStaticProviderFromEnv()
	u, _ = p.CurrentUser(context.Background())
	if u.ID != "alice" {
		t.Fatalf("user id = %q", u.ID)
	}
}
