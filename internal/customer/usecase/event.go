package usecase

type CustomerRegisteredEvent struct {
	CustomerID int64
	Phone      string
	Name       string
}
