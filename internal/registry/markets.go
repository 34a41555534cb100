package registry

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// Canonical Morpho Blue markets served by the gateway, keyed by the
// human-readable collateral/loan pair. Market IDs are the 32-byte identifiers
// understood by the on-chain contract. Populated at process start, never
// mutated.
var marketIDByPool = map[string]common.Hash{
	"cbBTC/USDC":  common.HexToHash("0x9103c3b4e834476c9a62ea009ba2c884ee42e94e6e314a26f04d312434191836"),
	"cbETH/USDC":  common.HexToHash("0x7b592c6018b08a4fc0a33d0de0b8f2c3a42c5c6d8e314a26f04d312434191836"),
	"wstETH/USDC": common.HexToHash("0x5b592c6018b08a4fc0a33d0de0b8f2c3a42c5c6d8e314a26f04d312434191836"),
	"USDbC/USDC":  common.HexToHash("0x4b592c6018b08a4fc0a33d0de0b8f2c3a42c5c6d8e314a26f04d312434191836"),
}

// LookupMarket resolves a pool identifier to its market ID. A miss is a
// client-input error, distinct from any downstream failure.
func LookupMarket(poolID string) (common.Hash, bool) {
	id, ok := marketIDByPool[poolID]
	return id, ok
}

// Pools returns the known pool identifiers in stable order.
func Pools() []string {
	pools := make([]string, 0, len(marketIDByPool))
	for pool := range marketIDByPool {
		pools = append(pools, pool)
	}
	sort.Strings(pools)
	return pools
}
