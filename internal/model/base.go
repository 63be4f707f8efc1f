package model

import (
	"github.com/google/uuid"
)

// Collection names as they appear in the persisted document.
const (
	CollectionPatients     = "patients"
	CollectionDoctors      = "doctors"
	CollectionAppointments = "appointments"
	CollectionUsers        = "users"
)

// NewID generates an opaque unique record identifier.
func NewID() string {
	return uuid.NewString()
}
