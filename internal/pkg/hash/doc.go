// Package hash provides keyed digests for short-lived secrets.
//
// OTP codes are stored as HMAC-SHA256 digests so that the record store can
// match a submitted code by equality without ever holding the plaintext.
// The digest is deterministic for a given secret, which is what makes the
// equality lookup possible.
package hash
