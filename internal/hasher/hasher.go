package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// HexLen is the content hash length stored in the manifest: the full
// 64-bit xxHash as 16 hex chars.
const HexLen = 16

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to hexLen.  hexLen <= 0 keeps the full 16 chars.
func ContentHash(data []byte, hexLen int) string {
	return truncate(xxhash.Sum64(data), hexLen)
}

// ContentHashReader computes xxHash64 from a reader, streaming.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return truncate(h.Sum64(), hexLen), nil
}

// FileHash streams the file at path through ContentHashReader.
func FileHash(path string, hexLen int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	sum, err := ContentHashReader(f, hexLen)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return sum, nil
}

// CacheKey identifies one placeholder computation: the source bytes and
// the component grid it was encoded with.
func CacheKey(contentHash string, x, y int) string {
	return fmt.Sprintf("%s:%dx%d", contentHash, x, y)
}

func truncate(v uint64, hexLen int) string {
	full := hex.EncodeToString(binary.BigEndian.AppendUint64(nil, v))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
