package models

// Attachment is one uploaded file, fully buffered for the duration of a
// single request and forwarded to the mail dispatcher unmodified.
type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// TotalSize returns the combined byte size of a set of attachments.
func TotalSize(attachments []Attachment) int64 {
	var total int64
	for _, a := range attachments {
		total += a.Size
	}
	return total
}

// SubmitResponse is the uniform response envelope of the intake endpoint.
type SubmitResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
