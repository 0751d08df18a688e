package platform

// Package platform contains OS integration: data directory resolution,
// whole-file JSON persistence helpers and revealing files in the OS file manager.
