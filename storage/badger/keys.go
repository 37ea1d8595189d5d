package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/worklens/worklens/core"
)

// Key prefixes for different data types
const (
	resultPrefix        = "clsres"
	resultDatePrefix    = "clsresd"
	resultProjectPrefix = "clsresp"
)

// makeResultKey generates a key for a result by ID.
func makeResultKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", resultPrefix, id))
}

// makeResultDateKey generates a composite key for the insertion-time index.
// Format: prefix:timestamp:id
func makeResultDateKey(insertedAt time.Time, id core.ID) []byte {
	prefix := resultDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(insertedAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialResultDateKey generates a partial key for time range scans.
// Format: prefix:timestamp
func makePartialResultDateKey(insertedAt time.Time) []byte {
	prefix := resultDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(insertedAt.UnixMicro()))
	return buf
}

// makeResultProjectKey generates a composite key for the project index.
// Format: prefix:project\x00id
// The NUL separator keeps one project name from matching another's prefix.
func makeResultProjectKey(project string, id core.ID) []byte {
	prefix := resultProjectPrefix + ":"
	totalSize := len(prefix) + len(project) + 1 + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, []byte(prefix))
	offset += copy(buf[offset:], []byte(project))
	buf[offset] = 0
	offset++
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialResultProjectKey generates a partial key for project queries.
// Format: prefix:project\x00
func makePartialResultProjectKey(project string) []byte {
	prefix := resultProjectPrefix + ":"
	totalSize := len(prefix) + len(project) + 1
	buf := make([]byte, totalSize)
	offset := copy(buf, []byte(prefix))
	offset += copy(buf[offset:], []byte(project))
	buf[offset] = 0
	return buf
}
