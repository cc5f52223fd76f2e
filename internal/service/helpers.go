package service

import (
	"time"
)

// GetExpiresAt converts a token endpoint's expires_in to an absolute
// timestamp. Zero means the provider reported no expiry.
func GetExpiresAt(expiresIn int) time.Time {
	if expiresIn <= 0 {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}
