// Package services defines the shared error taxonomy used across the
// authentication, resolution, capture, and tagging stages.
package services
