package inbound

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shandysiswandi/mediflow/internal/customer/entity"
)

type SendOTPRequest struct {
	Phone string `json:"phone" example:"9876543210"`
}

type SendOTPResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
}

func (SendOTPResponse) Message() string { return "OTP sent successfully." }

type VerifyRequest struct {
	Phone string `json:"phone" example:"9876543210"`
	OTP   string `json:"otp" example:"482913"`
}

type VerifyResponse struct {
	IsNewUser   bool      `json:"is_new_user"`
	Customer    *Customer `json:"customer,omitempty"`
	AccessToken string    `json:"access_token,omitempty"`
}

func (r VerifyResponse) Message() string {
	if r.IsNewUser {
		return "OTP verified. Please complete registration."
	}
	return "Login successful."
}

type RegisterRequest struct {
	Phone  string `json:"phone" example:"9876543210"`
	Name   string `json:"name" example:"Asha Rao"`
	Age    int16  `json:"age" example:"34"`
	Gender string `json:"gender" example:"female"`
}

type RegisterResponse struct {
	Customer    Customer `json:"customer"`
	AccessToken string   `json:"access_token"`
}

func (RegisterResponse) Message() string { return "Registration successful." }
func (RegisterResponse) StatusCode() int { return http.StatusCreated }

type Customer struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Age       int16     `json:"age"`
	Gender    string    `json:"gender" example:"female"`
	CreatedAt time.Time `json:"created_at"`
}

func toCustomer(c *entity.Customer) Customer {
	return Customer{
		ID:        strconv.FormatInt(c.ID, 10),
		Phone:     c.Phone,
		Name:      c.Name,
		Age:       c.Age,
		Gender:    c.Gender.String(),
		CreatedAt: c.CreatedAt,
	}
}
