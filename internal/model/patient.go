package model

// Patient is a clinic patient record. Email is unique across patients.
type Patient struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	DOB   string `json:"dob"`
}

type CreatePatientRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email_shape"`
	DOB   string `json:"dob" validate:"required"`
}

// UpdatePatientRequest fully replaces the record; there is no partial patch.
type UpdatePatientRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email_shape"`
	DOB   string `json:"dob" validate:"required"`
}
