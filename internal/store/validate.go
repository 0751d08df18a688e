package store

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// mappingInput is a trimmed save request.
type mappingInput struct {
	Type string `validate:"required"`
	ID   string `validate:"required"`
	Name string `validate:"required"`
}

func newMappingInput(t, id, name string) mappingInput {
	return mappingInput{
		Type: strings.TrimSpace(t),
		ID:   strings.TrimSpace(id),
		Name: strings.TrimSpace(name),
	}
}

// missingFields lists the names of fields that failed validation.
func missingFields(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return fields
}
