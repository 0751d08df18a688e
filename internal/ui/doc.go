package ui

// Package ui contains the Fyne-based desktop user interface for the application.
// It renders the mapping table and edit form, drives the relay controls, and
// asks the user to classify credentials pushed by the relay. All UI strings are
// localized via Localization and every action goes through the catalog service.
