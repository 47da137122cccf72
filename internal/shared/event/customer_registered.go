package event

const CustomerRegisteredDestination string = "customer_registered"
const CustomerRegisteredConsumerWelcome string = "customer_registered_welcome"

type CustomerRegisteredMessage struct {
	CustomerID int64  `json:"customer_id,string"`
	Phone      string `json:"phone"`
	Name       string `json:"name"`
}
