package domain

// Garbage is a storage object to be deleted.
type Garbage struct {
	ObjectKey string
}
