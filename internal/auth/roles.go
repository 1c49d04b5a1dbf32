package auth

import (
	"context"
	"strings"

	"employeeManagement/internal/apperr"
)

// RequirePrincipal ensures a principal is present in context.
func RequirePrincipal(ctx context.Context) (*Principal, error) {
	p, ok := FromContext(ctx)
	if !ok || p == nil {
		return nil, apperr.Auth("Authentication required")
	}
	return p, nil
}

// RequireRole ensures the principal's role is in the allow-list (case-insensitive).
// The role only ever comes from the verified token, never from the request.
func RequireRole(ctx context.Context, allowed ...string) (*Principal, error) {
	p, err := RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range allowed {
		if p.Kind == strings.ToLower(r) {
			return p, nil
		}
	}
	return nil, apperr.Forbidden("Permission denied")
}
