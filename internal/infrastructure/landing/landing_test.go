package landing

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filelink-api/config"
	"filelink-api/internal/domain"
)

func newEngine(t *testing.T, scheme, prefix string) *Engine {
	t.Helper()
	e, err := New(config.Landing{DeepLinkScheme: scheme, DeepLinkPrefix: prefix, BaseURL: "https://pages.example.com/get"})
	require.NoError(t, err)
	return e
}

func TestRender_MovieExample(t *testing.T) {
	e := newEngine(t, "tg", "")

	out, err := e.Render(Page{
		FileID:        "FILE_ABC123",
		FileName:      "movie.mp4",
		FileSizeBytes: 1572864,
		TargetHandle:  "MyBot",
		DelaySeconds:  5,
	})
	require.NoError(t, err)

	assert.Contains(t, out, "1.50 MB")
	assert.Contains(t, out, `href="tg://MyBot?start=FILE_ABC123"`)
	assert.Contains(t, out, `data-link-base="tg://MyBot?start="`)
	assert.Contains(t, out, `data-delay="5"`)
	assert.Contains(t, out, `data-file-size="1572864"`)
	assert.Contains(t, out, "movie.mp4")
	assert.Contains(t, out, "Download starts in 5 seconds...")
	assert.Contains(t, out, "2000")
}

func TestRender_DefaultTelegramLink(t *testing.T) {
	e := newEngine(t, "https", "t.me/")

	out, err := e.Render(Page{FileID: "FILE_ABC123", FileName: "a.bin", TargetHandle: "MyBot"})
	require.NoError(t, err)

	assert.Contains(t, out, `href="https://t.me/MyBot?start=FILE_ABC123"`)
	assert.Contains(t, out, `data-delay="5"`)
	assert.Contains(t, out, "0 B")
}

func TestRender_Idempotent(t *testing.T) {
	e := newEngine(t, "https", "t.me/")
	p := Page{FileID: "FILE_0123456789AB", FileName: "report.pdf", FileSizeBytes: 2048, TargetHandle: "FilesBot", DelaySeconds: 3}

	a, err := e.Render(p)
	require.NoError(t, err)
	b, err := e.Render(p)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRender_EscapesFileName(t *testing.T) {
	e := newEngine(t, "https", "t.me/")

	out, err := e.Render(Page{
		FileID:       "FILE_ABC123",
		FileName:     `<script>alert("x")</script>.mp4`,
		TargetHandle: "MyBot",
	})
	require.NoError(t, err)

	assert.NotContains(t, out, `<script>alert("x")</script>`)
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestRender_HandleNotOverridableFromQuery(t *testing.T) {
	e := newEngine(t, "https", "t.me/")

	out, err := e.Render(Page{FileID: "FILE_ABC123", FileName: "a", TargetHandle: "MyBot"})
	require.NoError(t, err)

	assert.Contains(t, out, "params.get('file')")
	assert.Contains(t, out, "params.get('name')")
	assert.Contains(t, out, "params.get('size')")
	assert.False(t, strings.Contains(out, "params.get('bot')") || strings.Contains(out, "params.get('handle')"))
}

func TestRender_InvalidInput(t *testing.T) {
	e := newEngine(t, "https", "t.me/")

	tests := []struct {
		name string
		page Page
	}{
		{"empty id", Page{FileID: "", TargetHandle: "MyBot"}},
		{"id with query", Page{FileID: "FILE_1&x=y", TargetHandle: "MyBot"}},
		{"empty handle", Page{FileID: "FILE_1", TargetHandle: ""}},
		{"handle with slash", Page{FileID: "FILE_1", TargetHandle: "evil.com/x"}},
		{"negative delay", Page{FileID: "FILE_1", TargetHandle: "MyBot", DelaySeconds: -1}},
		{"huge delay", Page{FileID: "FILE_1", TargetHandle: "MyBot", DelaySeconds: 3600}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			out, err := e.Render(tt.page)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			assert.Empty(t, out)
		})
	}
}

func TestDeepLink(t *testing.T) {
	e := newEngine(t, "tg", "")

	link, err := e.DeepLink("FILE_ABC123", "MyBot")
	require.NoError(t, err)
	assert.Equal(t, "tg://MyBot?start=FILE_ABC123", link)

	_, err = e.DeepLink("FILE_ABC123", "bad handle")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPublicURL(t *testing.T) {
	e := newEngine(t, "https", "t.me/")
	assert.Equal(t,
		"https://pages.example.com/get?file=FILE_ABC123&name=my+movie.mp4&size=1572864",
		e.PublicURL("FILE_ABC123", "my movie.mp4", 1572864),
	)

	bare, err := New(config.Landing{DeepLinkScheme: "https"})
	require.NoError(t, err)
	assert.Empty(t, bare.PublicURL("FILE_ABC123", "a", 1))
}

func TestNew_RejectsBadScheme(t *testing.T) {
	_, err := New(config.Landing{DeepLinkScheme: "java script"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
