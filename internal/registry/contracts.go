package registry

// Canonical Base chain deployment read by the position resolver.
const (
	BaseChainID = 8453

	// Morpho lens exposing the position view on Base.
	MorphoLensAddress = "0x0e8cD5F5e9Fb2b70D1bE8c8A701Fe758e6F7e54A"

	// Basescan API used to check that the lens has verified source.
	BasescanAPIBaseURL = "https://api.basescan.org/api"
)
