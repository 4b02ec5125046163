package landing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"regexp"
	"strconv"

	"filelink-api/config"
	"filelink-api/internal/domain"
)

const (
	DefaultDelaySeconds = 5
	maxDelaySeconds     = 60
)

var (
	//go:embed templates/page.html.tmpl
	templatesFS embed.FS
	pageTmpl    = template.Must(template.ParseFS(templatesFS, "templates/page.html.tmpl"))

	handleRe = regexp.MustCompile(`^[A-Za-z0-9_]{1,64}$`)
	fileIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	schemeRe = regexp.MustCompile(`^[a-z][a-z0-9+.-]*$`)
)

type (
	Page struct {
		FileID        string
		FileName      string
		FileSizeBytes uint64
		TargetHandle  string
		// DelaySeconds 0 falls back to the engine default.
		DelaySeconds int
	}
	Engine struct {
		scheme  string
		prefix  string
		baseURL string
		delay   int
	}

	pageView struct {
		FileID        string
		FileName      string
		FileSizeBytes string
		SizeText      string
		DeepLink      template.URL
		LinkBase      template.URL
		DelaySeconds  int
	}
)

func New(cfg config.Landing) (*Engine, error) {
	if !schemeRe.MatchString(cfg.DeepLinkScheme) {
		return nil, fmt.Errorf("deep-link scheme %q: %w", cfg.DeepLinkScheme, domain.ErrInvalidInput)
	}
	delay := cfg.DelaySeconds
	if delay <= 0 {
		delay = DefaultDelaySeconds
	}
	return &Engine{
		scheme:  cfg.DeepLinkScheme,
		prefix:  cfg.DeepLinkPrefix,
		baseURL: cfg.BaseURL,
		delay:   delay,
	}, nil
}

func (e *Engine) linkBase(handle string) string {
	return e.scheme + "://" + e.prefix + handle + "?start="
}

// DeepLink composes <scheme>://<prefix><handle>?start=<fileID>.
func (e *Engine) DeepLink(fileID, handle string) (string, error) {
	if err := validate(fileID, handle); err != nil {
		return "", err
	}
	return e.linkBase(handle) + fileID, nil
}

// PublicURL points a statically hosted copy of the page at a file. It returns
// "" when no base URL is configured.
func (e *Engine) PublicURL(fileID, fileName string, sizeBytes uint64) string {
	if e.baseURL == "" {
		return ""
	}
	q := url.Values{}
	q.Set("file", fileID)
	q.Set("name", fileName)
	q.Set("size", strconv.FormatUint(sizeBytes, 10))
	return e.baseURL + "?" + q.Encode()
}

// Render produces the self-contained landing document. Output depends only on
// p and the engine config.
func (e *Engine) Render(p Page) (string, error) {
	if err := validate(p.FileID, p.TargetHandle); err != nil {
		return "", err
	}
	delay := p.DelaySeconds
	switch {
	case delay == 0:
		delay = e.delay
	case delay < 0 || delay > maxDelaySeconds:
		return "", fmt.Errorf("delay %ds out of range: %w", delay, domain.ErrInvalidInput)
	}

	base := e.linkBase(p.TargetHandle)
	v := pageView{
		FileID:        p.FileID,
		FileName:      p.FileName,
		FileSizeBytes: strconv.FormatUint(p.FileSizeBytes, 10),
		SizeText:      FormatSize(p.FileSizeBytes),
		DeepLink:      template.URL(base + p.FileID),
		LinkBase:      template.URL(base),
		DelaySeconds:  delay,
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render landing page: %w", err)
	}
	return buf.String(), nil
}

func validate(fileID, handle string) error {
	if !fileIDRe.MatchString(fileID) {
		return fmt.Errorf("file id %q: %w", fileID, domain.ErrInvalidInput)
	}
	if !handleRe.MatchString(handle) {
		return fmt.Errorf("target handle %q: %w", handle, domain.ErrInvalidInput)
	}
	return nil
}
