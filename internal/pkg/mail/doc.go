// Package mail sends plain and HTML email over SMTP. The OTP mail notifier
// and the delivery worker send codes through it.
package mail
