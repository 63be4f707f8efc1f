package model

// Doctor is a clinic doctor record. The (name, specialty) pair is unique
// across doctors. Specialty is free-form beyond being non-empty; the UI
// constrains it to a fixed list but the server does not.
type Doctor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

type CreateDoctorRequest struct {
	Name      string `json:"name" validate:"required"`
	Specialty string `json:"specialty" validate:"required"`
}

type UpdateDoctorRequest struct {
	Name      string `json:"name" validate:"required"`
	Specialty string `json:"specialty" validate:"required"`
}
