package inbound

import (
	"github.com/shandysiswandi/mediflow/internal/customer/usecase"
	"github.com/shandysiswandi/mediflow/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// SendOTP issues a login code to a phone number.
// @Summary Send OTP
// @Description Generates a 6-digit code for the phone number and delivers it out-of-band. At most 5 codes per hour per phone.
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body SendOTPRequest true "Phone number"
// @Success 200 {object} router.successResponse{data=SendOTPResponse} "OTP sent successfully."
// @Failure 400 {object} router.errorResponse "Valid 10-digit phone number required."
// @Failure 429 {object} router.errorResponse "Too many OTP requests. Please try again later."
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/send-otp [post]
func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.SendOTP(r.Context(), usecase.SendOTPInput{Phone: req.Phone})
	if err != nil {
		return nil, err
	}

	return SendOTPResponse{ExpiresAt: resp.ExpiresAt}, nil
}

// Verify consumes a login code.
// @Summary Verify OTP
// @Description Verifies the code. Existing customers receive an access token; new ones must register within the expiry period.
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body VerifyRequest true "Phone number and code"
// @Success 200 {object} router.successResponse{data=VerifyResponse} "Verified"
// @Failure 400 {object} router.errorResponse "Invalid or expired OTP."
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/verify [post]
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Verify(r.Context(), usecase.VerifyInput{Phone: req.Phone, OTP: req.OTP})
	if err != nil {
		return nil, err
	}

	out := VerifyResponse{IsNewUser: resp.IsNewUser, AccessToken: resp.AccessToken}
	if resp.Customer != nil {
		c := toCustomer(resp.Customer)
		out.Customer = &c
	}

	return out, nil
}

// Register creates the customer for a freshly verified phone.
// @Summary Register customer
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body RegisterRequest true "Customer profile"
// @Success 201 {object} router.successResponse{data=RegisterResponse} "Registration successful."
// @Failure 403 {object} router.errorResponse "Phone number not verified. Please complete OTP verification first."
// @Failure 409 {object} router.errorResponse "User with this phone number already exists."
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Phone:  req.Phone,
		Name:   req.Name,
		Age:    req.Age,
		Gender: req.Gender,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{Customer: toCustomer(resp.Customer), AccessToken: resp.AccessToken}, nil
}

// Me returns the authenticated customer.
// @Summary Current customer
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=Customer} "Customer"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Customer not found"
// @Router /api/v1/auth/me [get]
func (h *HTTPEndpoint) Me(r *router.Request) (any, error) {
	c, err := h.uc.Me(r.Context())
	if err != nil {
		return nil, err
	}

	return toCustomer(c), nil
}
