package domain

import "time"

type MaterialType string

const (
	MaterialPDF   MaterialType = "PDF"
	MaterialVideo MaterialType = "VIDEO"
	MaterialAudio MaterialType = "AUDIO"
	MaterialLink  MaterialType = "LINK"
)

func (t MaterialType) Valid() bool {
	switch t {
	case MaterialPDF, MaterialVideo, MaterialAudio, MaterialLink:
		return true
	}
	return false
}

type MaterialStatus string

const (
	MaterialPending   MaterialStatus = "PENDING"
	MaterialCompleted MaterialStatus = "COMPLETED"
)

type Material struct {
	ID          string         `json:"id"`
	StudentID   string         `json:"-"`
	ProfessorID *string        `json:"-"`
	Title       string         `json:"title"`
	Type        MaterialType   `json:"type"`
	Status      MaterialStatus `json:"status"`
	UploadedAt  time.Time      `json:"uploaded_at"`
}

// Complete moves the material to COMPLETED. The transition only goes forward,
// so completing an already completed material is a no-op. It reports whether
// the status changed.
func (m *Material) Complete() bool {
	if m.Status == MaterialCompleted {
		return false
	}
	m.Status = MaterialCompleted
	return true
}
