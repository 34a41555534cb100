package registry

// ABI fragments used by the chain reader.
const (
	MorphoLensABI = `[
		{"name":"position","type":"function","stateMutability":"view","inputs":[{"name":"id","type":"bytes32"},{"name":"user","type":"address"}],"outputs":[{"name":"supplyShares","type":"uint256"},{"name":"borrowShares","type":"uint256"},{"name":"collateral","type":"uint256"}]}
	]`
)
