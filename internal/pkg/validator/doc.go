// Package validator checks request and usecase input structs.
//
// Usecases depend on the Validator interface. V10Validator backs it with
// go-playground/validator and adds the rules this service needs: phone10,
// otpcode, identifier and alphaspace.
package validator

// Validator validates a struct and returns a field-keyed error on failure.
type Validator interface {
	Validate(data any) error
}
