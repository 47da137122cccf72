package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/samber/lo"
)

// HeaderAdminPhone identifies the operator calling an admin route.
const HeaderAdminPhone = "X-Admin-Phone"

type adminContextKey struct{}

// AdminPhone returns the allowlisted phone stored by AdminAllowlist.
func AdminPhone(ctx context.Context) string {
	v, _ := ctx.Value(adminContextKey{}).(string)
	return v
}

// AdminAllowlist admits requests whose X-Admin-Phone is one of phones. The
// set is fixed when the middleware is built.
func AdminAllowlist(phones []string) Middleware {
	allowed := lo.SliceToMap(
		lo.Compact(lo.Map(phones, func(p string, _ int) string { return strings.TrimSpace(p) })),
		func(p string) (string, struct{}) { return p, struct{}{} },
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			phone := strings.TrimSpace(r.Header.Get(HeaderAdminPhone))
			if phone == "" {
				writeJSON(w, errorResponse{Message: "Admin authentication required"}, http.StatusUnauthorized)
				return
			}
			if _, ok := allowed[phone]; !ok {
				writeJSON(w, errorResponse{Message: "Admin access denied"}, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminContextKey{}, phone)))
		})
	}
}
