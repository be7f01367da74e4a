package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Provider produces the menu document
type Provider interface {
	Load(ctx context.Context) (*Menu, error)
}

// NewProvider picks a provider for a file path or an http(s) URL
func NewProvider(source string) Provider {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return &HTTPProvider{URL: source, Client: &http.Client{Timeout: 15 * time.Second}}
	}
	return &FileProvider{Path: source}
}

// FileProvider reads the menu from disk, decoding by extension
type FileProvider struct {
	Path string
}

// Load reads and decodes the file
func (p *FileProvider) Load(ctx context.Context) (*Menu, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	}
	return Decode(data, formatOf(p.Path))
}

// MaxMenuSize caps a fetched menu document
const MaxMenuSize = 8 << 20

// HTTPProvider fetches a JSON menu over HTTP without caching
type HTTPProvider struct {
	URL      string
	Client   *http.Client
	MaxBytes int64 // MaxMenuSize when zero
}

// Load fetches and decodes the document
func (p *HTTPProvider) Load(ctx context.Context) (*Menu, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build menu request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("menu could not be read (status %d)", res.StatusCode)
	}
	limit := p.MaxBytes
	if limit <= 0 {
		limit = MaxMenuSize
	}
	data, err := io.ReadAll(io.LimitReader(res.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read menu response: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("menu response exceeds %d bytes", limit)
	}
	return Decode(data, formatOf(p.URL))
}

// Format identifies a menu encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

func formatOf(name string) Format {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Decode parses a menu document in the given format
func Decode(data []byte, format Format) (*Menu, error) {
	var m Menu
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &m)
	case FormatTOML:
		err = toml.Unmarshal(data, &m)
	default:
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse menu (%s): %w", format, err)
	}
	return &m, nil
}
