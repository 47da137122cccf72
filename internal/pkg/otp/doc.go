// Package otp provides the numeric one-time password generator used by the
// OTP login flow.
//
// Codes are always 6 digits in the range 100000-999999 drawn from a
// cryptographically secure source. The generator never falls back to a weak
// source or a fixed value: construction fails when the secure source cannot
// be read, and generation fails when the source misbehaves.
//
// Mask hides all but the first two characters of a code so it can appear in
// diagnostic output.
package otp
