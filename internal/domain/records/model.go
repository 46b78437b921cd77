package records

import "time"

// HealthRecord es una entrada del historial médico de una mascota.
// Nunca se borra: anular (void) la saca de listados y del link compartido.
type HealthRecord struct {
	ID    string
	PetID string

	Type  RecordType
	Title string
	Date  time.Time

	Vet         string
	Description string

	// Vaccine solo se completa cuando Type == vaccine.
	Vaccine *VaccineDetails

	CreatedBy string
	CreatedAt time.Time
	Status    Status
}

type VaccineDetails struct {
	VaccineName string
	NextDueDate *time.Time
}

// Vaccination es la vista de vacunas que consume la proyección compartida.
type Vaccination struct {
	RecordID    string
	VaccineName string
	Date        time.Time
	Vet         string
	NextDueDate *time.Time
}
