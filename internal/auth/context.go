package auth

import "context"

type contextKey struct{}

// Via records which credential resolved the caller.
type Via string

const (
	ViaSession Via = "session"
	ViaAPIKey  Via = "api_key"
)

// AuthContext is the resolved caller identity carried on every protected
// request.
type AuthContext struct {
	UserID    int64
	Username  string
	Email     string
	Via       Via
	SessionID int64 // zero when resolved via API key
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func UserID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.UserID
}
