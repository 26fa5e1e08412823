package models

// Share is a persisted share link. Path is the absolute filesystem path the
// link resolves to; API responses substitute the user-relative path so the
// owner's storage location is not revealed.
type Share struct {
	Link string `json:"link"`
	Path string `json:"path"`
}
