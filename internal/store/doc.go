package store

// Package store persists the mapping document and the type registry as
// human-readable JSON files. Every mutation rewrites the whole file.
