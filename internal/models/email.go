package models

import "time"

// Email is one raw portfolio-performance email returned by the mail source.
type Email struct {
	ID          string       `json:"id"`
	Subject     string       `json:"subject"`
	From        string       `json:"from"`
	Date        time.Time    `json:"date"`
	HTMLBody    string       `json:"html_body"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is a decoded email attachment. Only PDF statements are fetched;
// everything else is left on the server.
type Attachment struct {
	Filename string `json:"filename"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// IsPDF reports whether the attachment looks like a PDF statement.
func (a Attachment) IsPDF() bool {
	return a.MIMEType == "application/pdf" ||
		len(a.Filename) > 4 && a.Filename[len(a.Filename)-4:] == ".pdf"
}
