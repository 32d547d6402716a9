package model

// MediaType tags what a stored blob is used for.
type MediaType string

const (
	MediaTypeLogo MediaType = "logo"
)

// Media is a stored binary asset. Its ID is derived from the content, so
// the same upload always lands on the same row.
type Media struct {
	ID       string    `json:"id"`
	Type     MediaType `json:"type"`
	Blob     []byte    `json:"-"`
	FileName string    `json:"fileName"`
	MimeType string    `json:"mimeType"`
}
