package icons

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/ironsheep/eg-mcp/internal/source"
	"github.com/spf13/afero"
)

// writeTestIcon stores a solid-color PNG of the given size in fs.
func writeTestIcon(t *testing.T, fs afero.Fs, p string, size int, c color.Color) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	if err := afero.WriteFile(fs, p, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", p, err)
	}
}

func decodeResult(t *testing.T, res *Result) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid png: %v", err)
	}
	return img
}

// testAddress is the DAI contract on Ethereum.
const testAddress = "0x6B175474E89094C44Da98b954EedeAC495271d0F"

func newTestRenderer(t *testing.T) (*Renderer, *Cache, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	writeTestIcon(t, fs, "assets/chains/1/logo.png", 64, color.RGBA{255, 0, 0, 255})
	writeTestIcon(t, fs, "assets/chains/100/logo.png", 64, color.RGBA{255, 255, 255, 255})
	writeTestIcon(t, fs, "assets/tokens/1/0x6b175474e89094c44da98b954eedeac495271d0f/logo.png", 32, color.RGBA{0, 0, 255, 255})
	if err := afero.WriteFile(fs, "assets/chains/5/logo.png", []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	cache := NewCache(source.NewReader(fs))
	return NewRenderer(cache, "assets"), cache, fs
}

func TestURLs(t *testing.T) {
	if got := ChainIconURL(1); got != CDNBaseURL+"chains/1/logo.svg" {
		t.Errorf("ChainIconURL(1) = %s", got)
	}
	if got := TokenIconURL(1, "0xABCdef"); got != CDNBaseURL+"tokens/1/0xabcdef/logo.svg" {
		t.Errorf("TokenIconURL = %s", got)
	}
	if got := TokenAssetPath("assets", 10, "0xABC"); got != "assets/tokens/10/0xabc/logo.png" {
		t.Errorf("TokenAssetPath = %s", got)
	}
}

func TestChainName(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{1, "Ethereum"},
		{100, "Gnosis"},
		{42161, "Arbitrum"},
		{999999, "Chain 999999"},
	}
	for _, tt := range tests {
		if got := ChainName(tt.id); got != tt.want {
			t.Errorf("ChainName(%d) = %s, want %s", tt.id, got, tt.want)
		}
	}
}

func TestRenderer_Chain(t *testing.T) {
	r, _, _ := newTestRenderer(t)

	res, err := r.Chain(1, Options{})
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if res.Width != DefaultSize || res.Height != DefaultSize {
		t.Errorf("size: got %dx%d, want %dx%d", res.Width, res.Height, DefaultSize, DefaultSize)
	}
	if res.MimeType != "image/png" {
		t.Errorf("MimeType = %s", res.MimeType)
	}
	if res.ChainName != "Ethereum" || res.URL != ChainIconURL(1) {
		t.Errorf("metadata: %+v", res)
	}

	img := decodeResult(t, res)
	r8, g8, b8, _ := img.At(DefaultSize/2, DefaultSize/2).RGBA()
	if r8>>8 < 250 || g8>>8 > 5 || b8>>8 > 5 {
		t.Errorf("center pixel: got (%d,%d,%d), want red", r8>>8, g8>>8, b8>>8)
	}
}

func TestRenderer_Size(t *testing.T) {
	r, _, _ := newTestRenderer(t)

	res, err := r.Chain(1, Options{Size: 48})
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if res.Width != 48 || res.Height != 48 {
		t.Errorf("got %dx%d, want 48x48", res.Width, res.Height)
	}

	for _, size := range []int{MinSize - 1, MaxSize + 1, -5} {
		if _, err := r.Chain(1, Options{Size: size}); err == nil {
			t.Errorf("size %d: expected error", size)
		}
	}
}

func TestRenderer_GnosisInverted(t *testing.T) {
	r, _, _ := newTestRenderer(t)

	res, err := r.Chain(ChainGnosis, Options{})
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if !res.Inverted {
		t.Error("Gnosis icon should be inverted")
	}

	img := decodeResult(t, res)
	r8, g8, b8, _ := img.At(4, 4).RGBA()
	if r8>>8 > 5 || g8>>8 > 5 || b8>>8 > 5 {
		t.Errorf("inverted white should be black, got (%d,%d,%d)", r8>>8, g8>>8, b8>>8)
	}
}

func TestRenderer_Grayscale(t *testing.T) {
	r, _, _ := newTestRenderer(t)

	res, err := r.Chain(1, Options{Grayscale: true})
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if !res.Grayscale {
		t.Error("Grayscale flag not reported")
	}

	img := decodeResult(t, res)
	r8, g8, b8, _ := img.At(4, 4).RGBA()
	if r8 != g8 || g8 != b8 {
		t.Errorf("pixel not gray: (%d,%d,%d)", r8>>8, g8>>8, b8>>8)
	}
}

func TestRenderer_Token(t *testing.T) {
	r, _, _ := newTestRenderer(t)

	res, err := r.Token(1, testAddress, Options{Size: 16})
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if res.Width != 16 {
		t.Errorf("Width = %d", res.Width)
	}
	if res.URL != TokenIconURL(1, strings.ToLower(testAddress)) {
		t.Errorf("URL = %s", res.URL)
	}

	for _, bad := range []string{"", "0xabc", "../../chains/1", "0x" + strings.Repeat("g", 40), testAddress + "/.."} {
		if _, err := r.Token(1, bad, Options{}); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("Token(%q): got %v, want ErrInvalidAddress", bad, err)
		}
	}
}

func TestValidAddress(t *testing.T) {
	tests := []struct {
		address string
		want    bool
	}{
		{testAddress, true},
		{strings.ToLower(testAddress), true},
		{"6B175474E89094C44Da98b954EedeAC495271d0F", false},
		{"0x6B17", false},
		{"../../chains/1", false},
	}
	for _, tt := range tests {
		if got := ValidAddress(tt.address); got != tt.want {
			t.Errorf("ValidAddress(%q) = %v, want %v", tt.address, got, tt.want)
		}
	}
}

func TestRenderer_Errors(t *testing.T) {
	r, _, _ := newTestRenderer(t)

	_, err := r.Chain(137, Options{})
	if !errors.Is(err, source.ErrReadFailure) {
		t.Errorf("missing asset: got %v, want ErrReadFailure", err)
	}

	_, err = r.Chain(5, Options{})
	if err == nil {
		t.Error("corrupt asset: expected error")
	}
}

func TestCache(t *testing.T) {
	_, cache, fs := newTestRenderer(t)

	if _, err := cache.Load("assets/chains/1/logo.png"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cache.Len() != 1 {
		t.Fatalf("Len = %d, want 1", cache.Len())
	}

	// A cached image survives removal of the file until evicted.
	if err := fs.Remove("assets/chains/1/logo.png"); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Load("assets/chains/1/logo.png"); err != nil {
		t.Errorf("cached Load: %v", err)
	}

	cache.Evict("assets/chains/1/logo.png")
	if _, err := cache.Load("assets/chains/1/logo.png"); err == nil {
		t.Error("Load after Evict should read the (removed) file again")
	}

	if _, err := cache.Load("assets/tokens/1/0x6b175474e89094c44da98b954eedeac495271d0f/logo.png"); err != nil {
		t.Fatal(err)
	}
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len after Clear = %d", cache.Len())
	}
}

func TestCache_Concurrent(t *testing.T) {
	_, cache, _ := newTestRenderer(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load("assets/chains/1/logo.png"); err != nil {
				t.Errorf("Load: %v", err)
			}
		}()
	}
	wg.Wait()

	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}
