// Package hasher derives content-addressed names for encoded thumbnails.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// NameHashLen is how many hex chars of the hash go into a file name.
const NameHashLen = 8

// ContentHash returns the xxHash64 of data as hex, truncated to hexLen
// characters (0 or out of range keeps all 16).
func ContentHash(data []byte, hexLen int) string {
	return format(xxhash.Sum64(data), hexLen)
}

// ContentHashReader is ContentHash over a stream.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	d := xxhash.New()
	if _, err := io.Copy(d, r); err != nil {
		return "", err
	}
	return format(d.Sum64(), hexLen), nil
}

// FileName builds "<base>.<w>.<h>.<hash>.<ext>" for a thumbnail.
func FileName(base string, w, h int, data []byte, ext string) string {
	return fmt.Sprintf("%s.%d.%d.%s.%s", base, w, h, ContentHash(data, NameHashLen), ext)
}

func format(sum uint64, hexLen int) string {
	full := hex.EncodeToString(binary.BigEndian.AppendUint64(nil, sum))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
