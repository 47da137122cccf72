package event

import "time"

const OTPDeliveryDestination string = "otp_delivery"
const OTPDeliveryConsumerDispatch string = "otp_delivery_dispatch"

// OTPDeliveryMessage carries the plain code to the delivery worker. It must
// never be logged as a whole.
type OTPDeliveryMessage struct {
	Identifier string    `json:"identifier"`
	Code       string    `json:"code"`
	ExpiresAt  time.Time `json:"expires_at"`
}
