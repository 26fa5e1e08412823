package models

// PendingUpload is a reserved upload destination. Path is absolute and was
// sandbox-validated when the reservation was made; it is never re-derived,
// only the owner is re-checked at consumption. The creation time lives in
// the expiring store that holds the record.
type PendingUpload struct {
	Path   string
	UserID int64
}
