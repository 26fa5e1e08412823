package models

// Element kinds reported by directory listings.
const (
	ElementTypeFile      = "file"
	ElementTypeDirectory = "directory"
)

// Element describes one entry of a directory listing. Bytes is zero for
// directories.
type Element struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Bytes int64  `json:"bytes"`
}
