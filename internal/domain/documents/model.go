package documents

import "time"

// Category coincide con las categorías de accessrequests, más OTHER (solo
// alcanzable con un scope ALL).
type Category string

const (
	CategoryPrescription Category = "PRESCRIPTION"
	CategoryReport       Category = "REPORT"
	CategoryScan         Category = "SCAN"
	CategoryDischarge    Category = "DISCHARGE"
	CategoryVaccination  Category = "VACCINATION"
	CategoryOther        Category = "OTHER"
)

// Document es metadata: el archivo en sí vive en otro lado.
type Document struct {
	ID         string
	PatientID  string
	UploadedBy string

	Category     Category
	Title        string
	Description  string
	HospitalName string
	DocumentDate time.Time // fecha del evento médico

	// IsCritical: visible durante un acceso de emergencia.
	IsCritical bool

	CreatedAt time.Time
}
