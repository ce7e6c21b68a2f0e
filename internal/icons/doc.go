// Package icons renders chain and token logos for the design system.
//
// The web ChainIcon and TokenIcon components load SVG logos from the
// tokenAssets CDN. Tooling cannot rasterize SVG or reach the network, so this
// package works from a local raster mirror with the same layout:
//
//	<assets>/chains/<chainId>/logo.png
//	<assets>/tokens/<chainId>/<address>/logo.png
//
// Rendering matches what the components do on screen: the logo is fit into a
// square of the requested size, the Gnosis logo (chain 100) is inverted, and
// disabled chains may be rendered in grayscale.
//
// # Caching
//
// Decoded assets are kept in a Cache for the life of the process, keyed by
// asset path. Resized output is not cached.
package icons
