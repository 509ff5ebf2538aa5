// Package workflow sequences recording runs: authorize, resolve, capture,
// and tag, in that order, one run at a time.
package workflow
