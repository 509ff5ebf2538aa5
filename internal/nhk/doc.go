// Package nhk reads the radio ondemand JSON catalog and normalizes its
// listing and series payloads into the unified program entity.
package nhk
