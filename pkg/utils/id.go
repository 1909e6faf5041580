package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"
)

var (
	// Counter for sequential IDs
	idCounter uint64
)

// GenerateID generates a unique ID
func GenerateID() string {
	// Increment counter atomically
	count := atomic.AddUint64(&idCounter, 1)

	// Combine timestamp with counter for uniqueness
	timestamp := time.Now().UnixNano()
	return fmt.Sprintf("%x-%x", timestamp, count)
}

// GenerateJobID generates a selection-job ID with a timestamp prefix
func GenerateJobID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "sel-" + GenerateID()
	}
	timestamp := time.Now().Format("20060102-150405")
	return fmt.Sprintf("sel-%s-%s", timestamp, hex.EncodeToString(b))
}
