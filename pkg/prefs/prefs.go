package prefs

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrNotProvisioned signals that the preference table does not exist yet. It
// is a soft signal, not a failure: reads report the feature as disabled and
// writes acknowledge without persisting.
var ErrNotProvisioned = errors.New("preference storage is not provisioned")

// Preferences is one user's preference document. The payload is opaque to the
// server; it is stored and returned verbatim, last write wins.
type Preferences struct {
	UserID    string
	Data      json.RawMessage
	UpdatedAt time.Time
}
