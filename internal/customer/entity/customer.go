package entity

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) String() string { return string(g) }

type Customer struct {
	ID        int64
	Phone     string
	Name      string
	Age       int16
	Gender    Gender
	CreatedAt time.Time
	UpdatedAt time.Time
}
