package icons

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// Icon size bounds in pixels.
const (
	DefaultSize = 24
	MinSize     = 8
	MaxSize     = 512
)

// Options controls how an icon is rendered.
type Options struct {
	// Size is the edge length of the square output. Zero means DefaultSize.
	Size int

	// Grayscale renders the icon desaturated, as for disabled chains.
	Grayscale bool
}

// Result is a rendered icon.
type Result struct {
	ChainID     int    `json:"chain_id"`
	ChainName   string `json:"chain_name"`
	Address     string `json:"address,omitempty"`
	URL         string `json:"url"`
	Asset       string `json:"asset"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Inverted    bool   `json:"inverted"`
	Grayscale   bool   `json:"grayscale"`
	ImageBase64 string `json:"-"`
	MimeType    string `json:"mime_type"`
}

// Renderer produces PNG icons from the local asset mirror.
type Renderer struct {
	cache     *Cache
	assetsDir string
}

// NewRenderer returns a renderer reading assets under assetsDir through cache.
func NewRenderer(cache *Cache, assetsDir string) *Renderer {
	return &Renderer{cache: cache, assetsDir: assetsDir}
}

// Chain renders the logo of a chain.
func (r *Renderer) Chain(chainID int, opts Options) (*Result, error) {
	asset := ChainAssetPath(r.assetsDir, chainID)
	res := &Result{
		ChainID:   chainID,
		ChainName: ChainName(chainID),
		URL:       ChainIconURL(chainID),
		Asset:     asset,
		Inverted:  invertsColors(chainID),
	}
	return r.render(res, opts)
}

// Token renders the logo of a token on a chain.
func (r *Renderer) Token(chainID int, address string, opts Options) (*Result, error) {
	if !ValidAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	asset := TokenAssetPath(r.assetsDir, chainID, address)
	res := &Result{
		ChainID:   chainID,
		ChainName: ChainName(chainID),
		Address:   address,
		URL:       TokenIconURL(chainID, address),
		Asset:     asset,
	}
	return r.render(res, opts)
}

func (r *Renderer) render(res *Result, opts Options) (*Result, error) {
	size := opts.Size
	if size == 0 {
		size = DefaultSize
	}
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("icon size %d outside %d..%d", size, MinSize, MaxSize)
	}

	src, err := r.cache.Load(res.Asset)
	if err != nil {
		return nil, fmt.Errorf("icon not available locally (CDN: %s): %w", res.URL, err)
	}

	var img image.Image = imaging.Fill(src, size, size, imaging.Center, imaging.Lanczos)
	if res.Inverted {
		img = effect.Invert(img)
	}
	if opts.Grayscale {
		img = effect.Grayscale(img)
		res.Grayscale = true
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode icon: %w", err)
	}

	res.Width = img.Bounds().Dx()
	res.Height = img.Bounds().Dy()
	res.ImageBase64 = base64.StdEncoding.EncodeToString(buf.Bytes())
	res.MimeType = "image/png"
	return res, nil
}
