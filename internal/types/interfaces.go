package types

import "time"

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time (always UTC).
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }

// BlobStore is the local persisted-state capability: named blobs keyed by
// string, used for user settings and the notifications-enabled flag.
type BlobStore interface {
	// Get returns the blob for key. The second return value is false when no
	// blob has ever been stored under the key.
	Get(key string) ([]byte, bool, error)
	// Set stores the blob under key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes the blob under key. Deleting a missing key is not an
	// error.
	Delete(key string) error
}
