package dto

// UploadResponse is returned by POST /care-record/upload on success.
type UploadResponse struct {
	Success       bool   `json:"success"`
	Transcription string `json:"transcription"`
	Report        string `json:"report"`
}

// ErrorResponse is the upload form's error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
