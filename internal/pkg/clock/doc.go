// Package clock provides a tiny time abstraction.
//
// OTP expiry, throttle windows and retention all derive from Clocker.Now, so
// tests drive time explicitly with Func instead of sleeping.
package clock
