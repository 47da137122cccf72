package inbound

import (
	"github.com/shandysiswandi/mediflow/internal/pkg/router"
)

// RegisterHTTPEndpoint mounts the admin OTP routes behind the admin guard.
func RegisterHTTPEndpoint(r *router.Router, uc uc, admin router.Middleware) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/admin/otp/attempts", end.ListAttempts, admin)
	r.GET("/api/v1/admin/otp/archives", end.ListArchives, admin)
}
