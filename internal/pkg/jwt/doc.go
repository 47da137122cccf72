// Package jwt issues and verifies the HS512 access tokens handed to customers
// after a successful OTP verification or registration.
package jwt
