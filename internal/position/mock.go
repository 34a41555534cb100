package position

// MockPosition is a canned balance set used when the live lookup fails.
type MockPosition struct {
	SupplyShares string
	BorrowShares string
	Collateral   string
}

// MockStore maps (checksummed wallet, pool) to canned positions. Read-only
// after construction; safe for concurrent lookups.
type MockStore struct {
	byWallet map[string]map[string]MockPosition
}

// NewMockStore returns the default sandbox fixtures.
func NewMockStore() *MockStore {
	return &MockStore{
		byWallet: map[string]map[string]MockPosition{
			"0x2E2Ea30Ba045Df4bC38e80cF11E119E12e06C1C2": {
				"cbBTC/USDC": {
					SupplyShares: "1000000000000000000",
					BorrowShares: "0",
					Collateral:   "500000000000000000",
				},
				"cbETH/USDC": {
					SupplyShares: "2000000000000000000",
					BorrowShares: "1000000000000000000",
					Collateral:   "1000000000000000000",
				},
			},
		},
	}
}

// Lookup expects a checksummed wallet address.
func (s *MockStore) Lookup(wallet, poolID string) (MockPosition, bool) {
	pools, ok := s.byWallet[wallet]
	if !ok {
		return MockPosition{}, false
	}
	mock, ok := pools[poolID]
	return mock, ok
}
