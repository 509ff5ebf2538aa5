package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAuthPhase1    = errors.New("auth phase 1 failed")
	ErrAuthPhase2    = errors.New("auth phase 2 failed")
	ErrStreamHTTP    = errors.New("stream resolution http error")
	ErrStreamFormat  = errors.New("stream resolution format error")
	ErrNormalization = errors.New("normalization error")
	ErrCapture       = errors.New("capture failed")
	ErrTagging       = errors.New("tagging failed")
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether err must abort the run. Tagging failures are the only
// recoverable class: the captured file is kept and the run still succeeds.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrTagging)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
