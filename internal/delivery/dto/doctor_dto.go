package dto

// PatientRecordsResponse is what a treating doctor sees when looking a
// patient up by body ID.
type PatientRecordsResponse struct {
	Patient   UserResponse      `json:"patient"`
	Records   []RecordResponse  `json:"records"`
	Histories []HistoryResponse `json:"histories"`
}
