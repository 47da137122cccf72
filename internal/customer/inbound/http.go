package inbound

import (
	"github.com/shandysiswandi/mediflow/internal/pkg/router"
)

// RegisterHTTPEndpoint mounts the customer auth routes. The unauthenticated
// ones share the per-IP limiter.
func RegisterHTTPEndpoint(r *router.Router, uc uc, limit router.Middleware) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/auth/send-otp", end.SendOTP, limit)
	r.POST("/api/v1/auth/verify", end.Verify, limit)
	r.POST("/api/v1/auth/register", end.Register, limit)
	r.GET("/api/v1/auth/me", end.Me)
}
