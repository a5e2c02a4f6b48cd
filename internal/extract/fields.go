package extract

// Sentinel used for unknown values in text-typed fields. Downstream listing
// sorts on it, so it is part of the data contract, not a display default.
const NotAvailable = "N/A"

// Categories is the closed set the model may choose from.
var Categories = []string{
	"Prescription",
	"Lab Report",
	"Medical Bill",
	"Pharmacy Bill",
	"Discharge Summary",
	"Consultation Notes",
	"Other",
}

// Fields is the structured result of classifying one document.
type Fields struct {
	Category     string `json:"category"`
	DocumentDate string `json:"document_date"`
	DoctorName   string `json:"doctor_name"`
	HospitalName string `json:"hospital_name"`
	Summary      string `json:"summary"`
}

// EmptyDocumentFields is the fixed record for unreadable/empty input.
func EmptyDocumentFields() Fields {
	return Fields{
		Category:     "Empty Document",
		DocumentDate: NotAvailable,
		DoctorName:   NotAvailable,
		HospitalName: NotAvailable,
		Summary:      "Document appears to be empty or text could not be extracted.",
	}
}

// FallbackFields is the fixed record returned when the model call or its
// response cannot be used.
func FallbackFields() Fields {
	return Fields{
		Category:     "Other",
		DocumentDate: NotAvailable,
		DoctorName:   NotAvailable,
		HospitalName: NotAvailable,
		Summary:      "Medical document processed but specific information could not be extracted.",
	}
}
