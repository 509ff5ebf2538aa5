// Package radiko implements the authenticated upstream: the two-phase
// handshake, station and schedule queries, keyword search, and live/time-free
// stream resolution.
package radiko
