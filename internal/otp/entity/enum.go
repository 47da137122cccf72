package entity

// ReasonInvalidOrExpired is the only rejection reason callers see. A wrong,
// expired, already-used or malformed code all produce it.
const ReasonInvalidOrExpired = "invalid or expired"

// Verification outcomes recorded on the otp.verifications counter.
const (
	OutcomeConsumed  = "consumed"
	OutcomeRejected  = "rejected"
	OutcomeMalformed = "malformed"
	OutcomeRaceLost  = "race_lost"
)
