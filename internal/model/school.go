package model

// School is the top-level record; it owns classes and may point at a logo.
type School struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	LogoBlobID *string `json:"logoBlobId,omitempty"`
}

// CreateSchoolRequest is the form payload for creating a school. The logo
// travels as a separate multipart file.
type CreateSchoolRequest struct {
	Name    string `form:"name" json:"name" binding:"required,min=1,max=200"`
	Address string `form:"address" json:"address" binding:"required,max=500"`
}
