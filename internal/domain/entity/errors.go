package entity

import (
	"errors"
	"fmt"
)

// NotFoundError : l'identifiant référencé n'existe pas dans la collection.
type NotFoundError struct {
	Entite string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s introuvable: %s", e.Entite, e.ID)
}

// ValidationError : une précondition du cycle de vie est violée. Le message
// est destiné à l'utilisateur final et remonté tel quel par l'API.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
