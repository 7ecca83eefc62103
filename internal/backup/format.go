package backup

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// FormatVersion is the archive layout version written by this package.
const FormatVersion = 1

// MaxDecompressedSize is the maximum allowed size of decompressed backup data (1GB).
// Buildings carry up to 1008 hourly values per room, so archives are larger
// than their record counts suggest.
const MaxDecompressedSize = 1024 * 1024 * 1024

// ErrChecksumMismatch is returned when the payload does not match its header.
var ErrChecksumMismatch = errors.New("backup checksum mismatch")

// Header is the plain-text first line of a backup archive.
type Header struct {
	Version     int               `json:"version"`
	CreatedAt   time.Time         `json:"created_at"`
	Checksum    string            `json:"checksum"`
	Buildings   int               `json:"buildings"`
	Simulations int               `json:"simulations"`
	Compressed  bool              `json:"compressed"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// writeArchive writes header line + gzip-compressed payload. The header's
// Checksum and Compressed fields are filled in here.
func writeArchive(path string, h *Header, payload []byte) error {
	var compressed bytes.Buffer
	gzw, err := gzip.NewWriterLevel(&compressed, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("creating gzip writer: %w", err)
	}
	if _, err := gzw.Write(payload); err != nil {
		return fmt.Errorf("compressing payload: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("closing gzip writer: %w", err)
	}

	h.Version = FormatVersion
	h.Checksum = checksum(compressed.Bytes())
	h.Compressed = true

	headerBytes, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("marshaling header: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	// Write to a sibling temp file so a crash never leaves a torn archive.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".radonsim-backup-*")
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	w.Write(headerBytes)
	w.WriteByte('\n')
	w.Write(compressed.Bytes())
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("writing archive: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving archive into place: %w", err)
	}
	return nil
}

// ReadHeader reads only the header line of an archive.
func ReadHeader(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	h, _, err := readHeader(bufio.NewReader(f))
	return h, err
}

// VerifyChecksum checks the integrity of an archive without decompressing it.
func VerifyChecksum(path string) error {
	_, _, err := readVerified(path)
	return err
}

// ReadPayload verifies an archive and returns its decompressed JSONL payload.
func ReadPayload(path string) (*Header, []byte, error) {
	h, compressed, err := readVerified(path)
	if err != nil {
		return nil, nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gzr.Close()

	decompressed, err := io.ReadAll(io.LimitReader(gzr, MaxDecompressedSize+1))
	if err != nil {
		return nil, nil, fmt.Errorf("decompressing payload: %w", err)
	}
	if int64(len(decompressed)) > MaxDecompressedSize {
		return nil, nil, fmt.Errorf("decompressed payload exceeds maximum size of %d bytes", MaxDecompressedSize)
	}
	return h, decompressed, nil
}

func readVerified(path string) (*Header, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	h, reader, err := readHeader(bufio.NewReader(f))
	if err != nil {
		return nil, nil, err
	}

	compressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("reading compressed payload: %w", err)
	}
	if actual := checksum(compressed); actual != h.Checksum {
		return nil, nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, h.Checksum, actual)
	}
	return h, compressed, nil
}

func readHeader(reader *bufio.Reader) (*Header, *bufio.Reader, error) {
	line, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, nil, fmt.Errorf("reading header line: %w", err)
	}

	var h Header
	if err := json.Unmarshal(bytes.TrimSpace(line), &h); err != nil {
		return nil, nil, fmt.Errorf("parsing header: %w", err)
	}
	if h.Version != FormatVersion {
		return nil, nil, fmt.Errorf("unsupported backup version %d", h.Version)
	}
	return &h, reader, nil
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:])
}
