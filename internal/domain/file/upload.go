package file

import (
	"fmt"
	"math"
	"path"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"filelink-api/internal/domain"
)

// MaxSizeBytes is the largest size the record store can hold.
const MaxSizeBytes uint64 = math.MaxInt64

// Kind is the upload flavour reported by the transport.
type Kind string

const (
	KindDocument Kind = "document"
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindPhoto    Kind = "photo"
)

type (
	// Variant is one stored rendition of an upload. Only photos carry more than one.
	Variant struct {
		TransportFileID string
		SizeBytes       uint64
		Width           int
		Height          int
	}
	Upload struct {
		Kind     Kind
		FileName string
		MimeType string
		Variants []Variant
	}
	// NewFile is the normalized shape handed to the minter and the store.
	NewFile struct {
		TransportFileID string
		FileName        string
		SizeBytes       uint64
		MimeType        string
	}
)

var defaults = map[Kind]struct{ name, ext, mime string }{
	KindDocument: {"document", "", "application/octet-stream"},
	KindVideo:    {"video", ".mp4", "video/mp4"},
	KindAudio:    {"audio", ".mp3", "audio/mpeg"},
	KindPhoto:    {"photo", ".jpg", "image/jpeg"},
}

// Extract normalizes any upload kind into a NewFile. ts only names files the
// transport sent without a name.
func Extract(u Upload, ts time.Time) (NewFile, error) {
	d, ok := defaults[u.Kind]
	if !ok {
		return NewFile{}, fmt.Errorf("unsupported upload kind %q: %w", u.Kind, domain.ErrInvalidInput)
	}
	if len(u.Variants) == 0 {
		return NewFile{}, fmt.Errorf("%s upload without variants: %w", u.Kind, domain.ErrInvalidInput)
	}

	v := u.Variants[0]
	if u.Kind == KindPhoto {
		v = LargestVariant(u.Variants)
	}
	if strings.TrimSpace(v.TransportFileID) == "" {
		return NewFile{}, fmt.Errorf("empty transport file id: %w", domain.ErrInvalidInput)
	}
	if v.SizeBytes > MaxSizeBytes {
		return NewFile{}, fmt.Errorf("file size %d out of range: %w", v.SizeBytes, domain.ErrInvalidInput)
	}

	name := cleanFileName(u.FileName)
	if name == "" || u.Kind == KindPhoto {
		name = fmt.Sprintf("%s_%d%s", d.name, ts.Unix(), d.ext)
	}
	mime := strings.TrimSpace(u.MimeType)
	if mime == "" {
		mime = d.mime
	}

	return NewFile{
		TransportFileID: v.TransportFileID,
		FileName:        name,
		SizeBytes:       v.SizeBytes,
		MimeType:        mime,
	}, nil
}

// LargestVariant picks the variant with the most bytes, then the most pixels;
// on a full tie the earliest one wins.
func LargestVariant(vs []Variant) Variant {
	best := vs[0]
	for _, v := range vs[1:] {
		switch {
		case v.SizeBytes > best.SizeBytes:
			best = v
		case v.SizeBytes == best.SizeBytes && v.Width*v.Height > best.Width*best.Height:
			best = v
		}
	}
	return best
}

func cleanFileName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s, _, _ = transform.String(norm.NFC, s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = path.Base(strings.ReplaceAll(s, "\\", "/"))
	if s == "." || s == "/" || s == ".." {
		return ""
	}
	return s
}
