package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat, bird, rabbit, other
type Species string

const (
	SpeciesDog    Species = "dog"
	SpeciesCat    Species = "cat"
	SpeciesBird   Species = "bird"
	SpeciesRabbit Species = "rabbit"
	SpeciesOther  Species = "other"
)

func ParseSpecies(s string) (Species, bool) {
	switch v := Species(s); v {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesRabbit, SpeciesOther:
		return v, true
	default:
		return "", false
	}
}

// DefaultEmoji es el ícono que usa la UI cuando el owner no eligió uno.
func (s Species) DefaultEmoji() string {
	switch s {
	case SpeciesDog:
		return "🐶"
	case SpeciesCat:
		return "🐱"
	case SpeciesBird:
		return "🐦"
	case SpeciesRabbit:
		return "🐰"
	default:
		return "🐾"
	}
}

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

func ParseSex(s string) (Sex, bool) {
	switch v := Sex(s); v {
	case SexMale, SexFemale, SexUnknown:
		return v, true
	case "":
		return SexUnknown, true
	default:
		return "", false
	}
}

// Pet representa el perfil de una mascota registrada en el sistema.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species
	Breed   string
	Sex     Sex

	BirthDate *time.Time
	Weight    float64 // kg, último valor cargado en el perfil
	Color     string
	Emoji     string
	Microchip string

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AgeYears calcula la edad en años cumplidos a la fecha now (0 si no hay fecha de nacimiento).
func (p Pet) AgeYears(now time.Time) int {
	if p.BirthDate == nil {
		return 0
	}
	bd := *p.BirthDate
	years := now.Year() - bd.Year()
	if now.Month() < bd.Month() || (now.Month() == bd.Month() && now.Day() < bd.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
