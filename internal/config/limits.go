package config

const (
	// MaxCollectionNameLength is the maximum length for collection names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxCollectionNameLength = 255

	// MaxDocumentNameLength is the maximum length for document names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxDocumentNameLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	// Same as document names for consistency.
	MaxFolderNameLength = 255

	// MaxDropBatchSize caps how many files one external drop may carry.
	MaxDropBatchSize = 50

	// DefaultGroupFolderName names the folder created when one document
	// is dropped onto another.
	DefaultGroupFolderName = "New folder"
)
