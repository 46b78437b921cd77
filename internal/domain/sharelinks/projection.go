package sharelinks

import "time"

// Projection es la vista de solo lectura que recibe quien abre un link.
// No incluye otras mascotas del dueño, datos de contacto, ni wellness.
type Projection struct {
	Pet           PetSummary
	Vaccinations  []SharedVaccination
	HealthRecords []SharedRecord
	Reminders     []SharedReminder
	Owner         SharedOwner
}

type PetSummary struct {
	ID          string
	Name        string
	Type        string
	Breed       string
	Age         int
	Weight      float64
	Emoji       string
	Gender      string
	Color       string
	MicrochipID string
}

type SharedVaccination struct {
	VaccineName string
	Date        time.Time
	Vet         string
	NextDueDate *time.Time
}

type SharedRecord struct {
	Title       string
	Type        string
	Date        time.Time
	Vet         string
	Description string
}

type SharedReminder struct {
	Title     string
	Type      string
	Date      time.Time
	Notes     string
	Completed bool
}

type SharedOwner struct {
	FirstName string
	LastName  string
	Location  string
}
