package jsonfile

import (
	"github.com/jwalitptl/clinic-api/internal/model"
)

// Pure consistency rules over the document's collections. Linear scans
// are deliberate: every mutation already rewrites the whole file, so the
// scan is never the dominant cost at the scale this store serves.

func patientIndex(patients []model.Patient, id string) int {
	for i := range patients {
		if patients[i].ID == id {
			return i
		}
	}
	return -1
}

func doctorIndex(doctors []model.Doctor, id string) int {
	for i := range doctors {
		if doctors[i].ID == id {
			return i
		}
	}
	return -1
}

func appointmentIndex(appointments []model.Appointment, id string) int {
	for i := range appointments {
		if appointments[i].ID == id {
			return i
		}
	}
	return -1
}

func userIndex(users []model.User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}

// patientEmailTaken reports whether another patient (id differing from
// excludeID) already holds the email.
func patientEmailTaken(patients []model.Patient, email, excludeID string) bool {
	for i := range patients {
		if patients[i].Email == email && patients[i].ID != excludeID {
			return true
		}
	}
	return false
}

// doctorKeyTaken reports whether another doctor already holds the
// (name, specialty) pair.
func doctorKeyTaken(doctors []model.Doctor, name, specialty, excludeID string) bool {
	for i := range doctors {
		if doctors[i].Name == name && doctors[i].Specialty == specialty && doctors[i].ID != excludeID {
			return true
		}
	}
	return false
}

// userKeyTaken reports whether another user already holds the username or
// the email.
func userKeyTaken(users []model.User, username, email string) bool {
	for i := range users {
		if users[i].Username == username || users[i].Email == email {
			return true
		}
	}
	return false
}

// doctorBooked reports whether the doctor already has an appointment at
// the given date and time, ignoring the appointment excludeID (the record
// being replaced on update).
func doctorBooked(appointments []model.Appointment, doctorID, date, tm, excludeID string) bool {
	for i := range appointments {
		a := &appointments[i]
		if a.DoctorID == doctorID && a.Date == date && a.Time == tm && a.ID != excludeID {
			return true
		}
	}
	return false
}

// cascadeAppointments removes every appointment rejected by keep. Both
// the patient-delete and doctor-delete paths go through this one rule so
// the cascade policy cannot diverge between them.
func cascadeAppointments(doc *document, keep func(model.Appointment) bool) {
	kept := doc.Appointments[:0]
	for _, a := range doc.Appointments {
		if keep(a) {
			kept = append(kept, a)
		}
	}
	doc.Appointments = kept
}
