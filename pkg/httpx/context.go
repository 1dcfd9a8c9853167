package httpx

import "context"

type ctxKey string

const (
	CtxKeyIdentityID ctxKey = "identity_id"
	CtxKeyRole       ctxKey = "role"
	CtxKeyClaims     ctxKey = "claims" // full jwtx.Claims if you need them
)

// IdentityIDFromCtx returns the authenticated identity id, or "" when the
// request did not pass AuthnMiddleware.
func IdentityIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyIdentityID).(string); ok {
		return v
	}
	return ""
}

// RoleFromCtx returns the role embedded in the verified credential.
func RoleFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRole).(string); ok {
		return v
	}
	return ""
}
