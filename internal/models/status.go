package models

import (
	"strings"

	"github.com/macmacal/jaypore-ci/internal/errors"
)

// PublishStatus is the pipeline outcome reported as a commit status.
type PublishStatus string

const (
	StatusPending PublishStatus = "pending"
	StatusSuccess PublishStatus = "success"
	StatusError   PublishStatus = "error"
	StatusFailure PublishStatus = "failure"
	StatusWarning PublishStatus = "warning"
)

// PublishStatuses lists every accepted status, in the order shown to users.
var PublishStatuses = []PublishStatus{
	StatusPending,
	StatusSuccess,
	StatusError,
	StatusFailure,
	StatusWarning,
}

func (s PublishStatus) String() string {
	return string(s)
}

// Validate fails with errors.ErrInvalidStatus for anything outside PublishStatuses.
func (s PublishStatus) Validate() error {
	for _, known := range PublishStatuses {
		if s == known {
			return nil
		}
	}
	return errors.ErrInvalidStatus.WithContext("status", string(s))
}

// ParsePublishStatus converts user input into a PublishStatus. Matching is exact;
// surrounding whitespace is ignored.
func ParsePublishStatus(value string) (PublishStatus, error) {
	status := PublishStatus(strings.TrimSpace(value))
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}
