package config

const (
	// MaxArticleTitleLength is the maximum length for article titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (titles should be short and descriptive).
	MaxArticleTitleLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for uploaded file names.
	// Same as folder names for consistency.
	MaxFileNameLength = 255

	// MaxTagLength is the maximum length for a normalized tag.
	MaxTagLength = 100

	// MaxCommentLength is the maximum length for comment bodies.
	MaxCommentLength = 4000

	// MaxUploadBytes caps a single file upload. Larger binaries belong in
	// a dedicated media pipeline, not the board store.
	MaxUploadBytes = 100 << 20

	// DefaultSearchLimit bounds result sets for article and tag search.
	DefaultSearchLimit = 50
)
