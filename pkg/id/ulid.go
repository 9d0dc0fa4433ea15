package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

/**
 * @time: 2025/11/02
 * @file: ulid.go
 * @description: ulid
 */

// GetULID generates a new ULID, sortable by issue time.
func GetULID() string {
	ms := ulid.Now()
	id, err := ulid.New(ms, rand.Reader)
	if err != nil {
		return ""
	}
	return id.String()
}
