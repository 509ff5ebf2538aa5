// Package httpx provides the HTTP client shared by the radiko and NHK
// services. Retry behavior is an explicit RetryPolicy value passed in by the
// caller, never a hidden decorator.
package httpx
