package records

// RecordType clasifica una entrada del historial médico.
// @Enum medical_visit, vaccine, deworming, flea_treatment, surgery, note
type RecordType string

const (
	RecordTypeMedicalVisit  RecordType = "medical_visit"
	RecordTypeVaccine       RecordType = "vaccine"
	RecordTypeDeworming     RecordType = "deworming"
	RecordTypeFleaTreatment RecordType = "flea_treatment"
	RecordTypeSurgery       RecordType = "surgery"
	RecordTypeNote          RecordType = "note"
)

func ParseRecordType(s string) (RecordType, bool) {
	switch v := RecordType(s); v {
	case RecordTypeMedicalVisit, RecordTypeVaccine, RecordTypeDeworming,
		RecordTypeFleaTreatment, RecordTypeSurgery, RecordTypeNote:
		return v, true
	default:
		return "", false
	}
}

type Status string

const (
	StatusActive Status = "active"
	StatusVoided Status = "voided"
)
