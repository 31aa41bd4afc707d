package meta

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// FileHash returns the MD5 hex digest of the file's bytes, read in 4 KiB
// chunks. The digest identifies the exact byte content of the analyzed
// file; it is not a security primitive.
func FileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer file.Close()

	hasher := md5.New()
	buf := make([]byte, 4096)

	for {
		n, err := file.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file for hashing: %w", err)
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
