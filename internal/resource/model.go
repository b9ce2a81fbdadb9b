package resource

import (
	"net/http"

	"github.com/francis1990/clinic-booking-backend/internal/pkg/apperror"
)

var ErrNotFound = apperror.New(http.StatusNotFound, "resource not found")

// ID identifies a bookable resource.
type ID int64

// Resource is a bookable practitioner. It is immutable in this service;
// roster management happens elsewhere.
type Resource struct {
	ID          ID
	Name        string
	LastName    string
	Specialties []string
}
