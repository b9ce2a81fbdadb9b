package client

import (
	"net/http"

	"github.com/francis1990/clinic-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "client not found")
	ErrEmailRequired = apperror.New(http.StatusBadRequest, "email is required")
	ErrNameRequired  = apperror.New(http.StatusBadRequest, "name is required")
)

// ID identifies a client.
type ID int64

// Client is the party a booking is made for.
type Client struct {
	ID    ID
	Name  string
	Email string
	Phone *string
	Notes *string
}
