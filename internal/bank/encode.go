package bank

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Digest identifies one serialized bank.
type Digest struct {
	Hex  string // SHA-256 of the bytes
	Size int64
}

// Stamp is the short form used for cache busting.
func (d Digest) Stamp() string {
	if len(d.Hex) < 12 {
		return d.Hex
	}
	return d.Hex[:12]
}

// Sum hashes b.
func Sum(b []byte) Digest {
	s := sha256.Sum256(b)
	return Digest{Hex: hex.EncodeToString(s[:]), Size: int64(len(b))}
}

// Encode writes qs as an indented JSON list. HTML is not escaped, and an
// empty bank is written as [].
func Encode(w io.Writer, qs []Question) error {
	if qs == nil {
		qs = []Question{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(qs)
}

// Marshal returns the encoded bank.
func Marshal(qs []Question) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, qs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes qs to path atomically (temp file in the same directory,
// then rename) and returns the digest of what was written.
func WriteFile(path string, qs []Question) (Digest, error) {
	b, err := Marshal(qs)
	if err != nil {
		return Digest{}, fmt.Errorf("encode questions: %w", err)
	}
	if err := WriteAtomic(path, b); err != nil {
		return Digest{}, err
	}
	return Sum(b), nil
}

// WriteAtomic replaces path with b, creating parent directories as needed.
func WriteAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
