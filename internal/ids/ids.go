// Package ids generates identifiers for stored entities.
package ids

import "github.com/segmentio/ksuid"

// New returns a new K-sortable unique id.
func New() string {
	return ksuid.New().String()
}
