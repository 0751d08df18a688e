// Package catalog holds the rules behind the desktop window: which types
// exist and are enabled, which of them may be removed, and how mappings are
// saved and deleted. The UI never talks to the stores directly.
package catalog
