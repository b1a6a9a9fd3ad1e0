package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/camden-git/familymapbackend/models"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required,min=4"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Gender    string `json:"gender" validate:"required,oneof=m f M F"`
}

// AuthResult is what a successful login or registration yields
type AuthResult struct {
	AuthToken string `json:"authtoken"`
	Username  string `json:"username"`
	PersonID  string `json:"personID"`
}

// FamilyService is the source of a user's family dataset
type FamilyService interface {
	Login(ctx context.Context, req LoginRequest) (AuthResult, error)
	Register(ctx context.Context, req RegisterRequest) (AuthResult, error)
	Persons(ctx context.Context, authToken string) ([]models.Person, error)
	Events(ctx context.Context, authToken string) ([]models.Event, error)
	Clear(ctx context.Context) error
}

// ServiceError is the typed failure returned by FamilyService implementations
type ServiceError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Unauthorized reports whether the failure is a credential problem
func (e *ServiceError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

func newServiceError(op string, status int, message string, err error) *ServiceError {
	return &ServiceError{Op: op, Status: status, Message: message, Err: err}
}

// AsServiceError unwraps err into a *ServiceError if it carries one
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
