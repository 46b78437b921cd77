package reminders

import "time"

// ReminderType
// @Enum vaccine, medication, appointment, grooming, other
type ReminderType string

const (
	TypeVaccine     ReminderType = "vaccine"
	TypeMedication  ReminderType = "medication"
	TypeAppointment ReminderType = "appointment"
	TypeGrooming    ReminderType = "grooming"
	TypeOther       ReminderType = "other"
)

func ParseType(s string) (ReminderType, bool) {
	switch v := ReminderType(s); v {
	case TypeVaccine, TypeMedication, TypeAppointment, TypeGrooming, TypeOther:
		return v, true
	case "":
		return TypeOther, true
	default:
		return "", false
	}
}

type Reminder struct {
	ID          string
	PetID       string
	OwnerUserID string

	Title string
	Type  ReminderType
	Date  time.Time
	Notes string

	Completed   bool
	CompletedAt *time.Time

	CreatedAt time.Time
}
