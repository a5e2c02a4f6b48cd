package documents

import "medidoc-backend/internal/extract"

type uploadResponse struct {
	Filename string         `json:"filename"`
	Info     extract.Fields `json:"info"`
	Status   string         `json:"status"`
}

type listItem struct {
	ID           int64  `json:"id"`
	Filename     string `json:"filename"`
	Category     string `json:"category"`
	DocumentDate string `json:"document_date"`
	DoctorName   string `json:"doctor_name"`
	HospitalName string `json:"hospital_name"`
	Summary      string `json:"summary"`
}

type listResponse struct {
	Documents []listItem `json:"documents"`
	Count     int        `json:"count"`
}

func toListResponse(docs []Document) listResponse {
	items := make([]listItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, listItem{
			ID:           doc.ID,
			Filename:     doc.Filename,
			Category:     doc.Category,
			DocumentDate: doc.DocumentDate,
			DoctorName:   doc.DoctorName,
			HospitalName: doc.HospitalName,
			Summary:      doc.Summary,
		})
	}
	return listResponse{Documents: items, Count: len(items)}
}
