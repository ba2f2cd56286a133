package service

import (
	"time"

	"github.com/wbsotracker/wbsotracker/internal/model"
)

// CanEdit reports whether an entry created at createdAt may still be
// modified at now. Entries are editable strictly less than 48 hours after
// creation; at exactly 48 hours they are frozen.
//
// Both instants are interpreted as UTC. If either is unset the comparison
// cannot be made and the answer fails closed: not editable.
func CanEdit(createdAt, now time.Time) bool {
	if createdAt.IsZero() || now.IsZero() {
		return false
	}
	return now.UTC().Sub(createdAt.UTC()) < model.EditWindow
}
