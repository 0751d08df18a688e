package model

// Package model defines the domain data structures shared by the stores, the
// catalog service, the relay and the UI: credential mappings, the type
// registry with its enable flags, and transient incoming relay requests.
