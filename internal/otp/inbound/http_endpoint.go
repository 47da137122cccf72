package inbound

import (
	"strconv"

	"github.com/samber/lo"
	"github.com/shandysiswandi/mediflow/internal/otp/usecase"
	"github.com/shandysiswandi/mediflow/internal/pkg/router"
)

// HTTPEndpoint exposes the admin OTP handlers.
type HTTPEndpoint struct {
	uc uc
}

// ListAttempts returns the most recent OTP attempts for an identifier.
// @Summary List OTP attempts
// @Description Lists recent OTP attempts for a phone number or email, newest first. Code hashes are never returned.
// @Tags Admin, OTP
// @Produce json
// @Param X-Admin-Phone header string true "Allowlisted admin phone"
// @Param identifier query string true "Phone number or email"
// @Param limit query int false "Maximum number of attempts (1-100)"
// @Success 200 {object} router.successResponse{data=ListAttemptsResponse} "Recent attempts"
// @Failure 401 {object} router.errorResponse "Admin authentication required"
// @Failure 403 {object} router.errorResponse "Admin access denied"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/admin/otp/attempts [get]
func (h *HTTPEndpoint) ListAttempts(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.ListAttempts(r.Context(), usecase.ListAttemptsInput{
		Identifier: r.GetQuery("identifier"),
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	return ListAttemptsResponse{
		limit: resp.Limit,
		Attempts: lo.Map(resp.Attempts, func(a usecase.Attempt, _ int) Attempt {
			return Attempt{
				ID:         strconv.FormatInt(a.ID, 10),
				Identifier: a.Identifier,
				Status:     string(a.Status),
				CreatedAt:  a.CreatedAt,
				ExpiresAt:  a.ExpiresAt,
				UsedAt:     a.UsedAt,
			}
		}),
	}, nil
}

// ListArchives lists the audit archives written by the janitor.
// @Summary List OTP archives
// @Description Lists NDJSON archives of purged OTP records in the configured bucket.
// @Tags Admin, OTP
// @Produce json
// @Param X-Admin-Phone header string true "Allowlisted admin phone"
// @Param limit query int false "Maximum number of objects (1-100)"
// @Success 200 {object} router.successResponse{data=ListArchivesResponse} "Archive objects"
// @Failure 401 {object} router.errorResponse "Admin authentication required"
// @Failure 403 {object} router.errorResponse "Admin access denied"
// @Failure 503 {object} router.errorResponse "Archive storage is not configured"
// @Router /api/v1/admin/otp/archives [get]
func (h *HTTPEndpoint) ListArchives(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.ListArchives(r.Context(), usecase.ListArchivesInput{Limit: limit})
	if err != nil {
		return nil, err
	}

	return ListArchivesResponse{Bucket: resp.Bucket, Objects: resp.Objects}, nil
}
