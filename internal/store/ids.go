package store

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// NewID returns a fresh record id. Ids are never reused.
func NewID() string {
	return uuid.NewString()
}

// stableID derives a deterministic id from a canonical path, for records that are rediscovered
// on every load instead of being persisted.
func stableID(canonical string) string {
	return "builtin-" + strconv.FormatUint(xxhash.Sum64String(canonical), 16)
}
