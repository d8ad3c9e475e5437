// internal/pkg/identity/identity.go
package identity

import "context"

type contextKey struct{}

// WithToken 把调用方的身份令牌放进 ctx。
// 网关层不解析令牌内容，只负责原样透传给下游服务。
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, token)
}

// TokenFromContext 取出透传的身份令牌，没有则返回空串。
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(contextKey{}).(string)
	return token
}
