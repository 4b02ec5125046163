package minter

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"filelink-api/internal/domain/file"
	"filelink-api/internal/domain/user"
)

const (
	nonceSize = 16
	// 12 hex chars = 48 bits.
	idHexLen = 12
)

type Minter struct {
	random io.Reader
}

func New() *Minter { return &Minter{random: rand.Reader} }

// NewWithReader is for tests that need a deterministic nonce source.
func NewWithReader(r io.Reader) *Minter { return &Minter{random: r} }

// Mint derives a public file id from the upload context and a fresh random
// nonce. Two calls with identical inputs yield different ids.
func (m *Minter) Mint(principal user.ID, transportFileID string, ts time.Time) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(m.random, nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(strconv.FormatInt(int64(principal), 10)))
	h.Write([]byte{'|'})
	h.Write([]byte(transportFileID))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.FormatInt(ts.Unix(), 10)))
	h.Write([]byte{'|'})
	h.Write([]byte(hex.EncodeToString(nonce)))

	sum := hex.EncodeToString(h.Sum(nil))

	return file.IDPrefix + strings.ToUpper(sum[:idHexLen]), nil
}
