package model

// FragmentType tags where a retrievable text unit came from.
type FragmentType string

const (
	FragmentUpdate   FragmentType = "update"
	FragmentDocument FragmentType = "document"
)

// Fragment is an atomic retrievable text unit. Fragments are built fresh
// for each query and discarded afterwards.
type Fragment struct {
	Text     string
	Type     FragmentType
	Category string
	// Timestamp is set for updates, Title for documents.
	Timestamp string
	Title     string
	// Source is the storage locator for documents discovered out of band.
	Source string
}

// SearchResult pairs a fragment with its similarity score in [0, 1].
type SearchResult struct {
	Fragment Fragment
	Score    float64
}
