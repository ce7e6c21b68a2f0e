package icons

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// CDNBaseURL is where the web components load chain and token logos from.
const CDNBaseURL = "https://cdn.jsdelivr.net/gh/yearn/tokenAssets@main/"

// Chain IDs with special handling or display names.
const (
	ChainEthereum = 1
	ChainOptimism = 10
	ChainGnosis   = 100
	ChainPolygon  = 137
	ChainFantom   = 250
	ChainBase     = 8453
	ChainArbitrum = 42161
)

// ErrInvalidAddress is returned for token addresses that are not 0x-prefixed
// 20-byte hex strings.
var ErrInvalidAddress = errors.New("invalid token address")

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidAddress reports whether address is a 0x-prefixed 20-byte hex string.
func ValidAddress(address string) bool {
	return addressPattern.MatchString(address)
}

var chainNames = map[int]string{
	ChainEthereum: "Ethereum",
	ChainOptimism: "Optimism",
	ChainGnosis:   "Gnosis",
	ChainPolygon:  "Polygon",
	ChainFantom:   "Fantom",
	ChainBase:     "Base",
	ChainArbitrum: "Arbitrum",
}

// ChainName returns the display name of a chain, or "Chain <id>" when unknown.
func ChainName(chainID int) string {
	if name, ok := chainNames[chainID]; ok {
		return name
	}
	return fmt.Sprintf("Chain %d", chainID)
}

// ChainIconURL returns the CDN URL of a chain logo.
func ChainIconURL(chainID int) string {
	return fmt.Sprintf("%schains/%d/logo.svg", CDNBaseURL, chainID)
}

// TokenIconURL returns the CDN URL of a token logo. Addresses are lowercased.
func TokenIconURL(chainID int, address string) string {
	return fmt.Sprintf("%stokens/%d/%s/logo.svg", CDNBaseURL, chainID, strings.ToLower(address))
}

// ChainAssetPath is the local raster logo of a chain under assetsDir, laid
// out like the CDN.
func ChainAssetPath(assetsDir string, chainID int) string {
	return path.Join(assetsDir, "chains", fmt.Sprint(chainID), "logo.png")
}

// TokenAssetPath is the local raster logo of a token under assetsDir.
func TokenAssetPath(assetsDir string, chainID int, address string) string {
	return path.Join(assetsDir, "tokens", fmt.Sprint(chainID), strings.ToLower(address), "logo.png")
}

// invertsColors reports whether a chain's logo is drawn inverted, as the web
// ChainIcon does for Gnosis.
func invertsColors(chainID int) bool {
	return chainID == ChainGnosis
}
