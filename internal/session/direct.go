package session

import (
	"context"

	"github.com/supabase-community/gotrue-go/types"

	"gastos/internal/core"
	"gastos/internal/repository"
)

// DirectAuth authenticates straight against gotrue and binds the returned
// session to the repository so data queries run under the user's JWT.
type DirectAuth struct {
	repo *repository.SupabaseRepository
}

// NewDirectAuth builds a direct authenticator.
func NewDirectAuth(repo *repository.SupabaseRepository) *DirectAuth {
	return &DirectAuth{repo: repo}
}

func profileFromUser(u types.User) core.Profile {
	p := core.Profile{
		ID:    u.ID.String(),
		Email: u.Email,
	}
	if name, ok := u.UserMetadata["full_name"].(string); ok && name != "" {
		p.FullName = &name
	}
	return p
}

func (a *DirectAuth) Login(ctx context.Context, email, password string) (Session, error) {
	sess, err := a.repo.SignIn(ctx, email, password)
	if err != nil {
		return Session{}, core.ErrUnauthorized
	}
	a.repo.UseSession(sess)
	return Session{
		Profile:     profileFromUser(sess.User),
		AccessToken: sess.AccessToken,
	}, nil
}

func (a *DirectAuth) Register(ctx context.Context, email, password, fullName string) error {
	if _, err := a.repo.SignUp(ctx, email, password, fullName); err != nil {
		return &core.ValidationError{Field: "email", Msg: "registration failed"}
	}
	return nil
}

func (a *DirectAuth) Resolve(ctx context.Context, token string) (core.Profile, error) {
	user, err := a.repo.UserFromToken(ctx, token)
	if err != nil {
		return core.Profile{}, core.ErrUnauthorized
	}
	return profileFromUser(user), nil
}
