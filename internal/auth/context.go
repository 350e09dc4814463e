package auth

import "context"

type ctxKey struct{}

type ctxValue struct {
	token   string
	session *Session
}

// NewContext returns a copy of ctx carrying the verified token and session.
func NewContext(ctx context.Context, token string, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, ctxValue{token: token, session: s})
}

// FromContext returns the token and session stored by NewContext.
func FromContext(ctx context.Context) (string, *Session, bool) {
	v, ok := ctx.Value(ctxKey{}).(ctxValue)
	if !ok {
		return "", nil, false
	}
	return v.token, v.session, true
}
