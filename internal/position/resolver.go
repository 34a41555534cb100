package position

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/agent-gateway/internal/chain"
	gwerr "github.com/ggonzalez94/agent-gateway/internal/errors"
	"github.com/ggonzalez94/agent-gateway/internal/model"
	"github.com/ggonzalez94/agent-gateway/internal/registry"
	"go.uber.org/zap"
)

// Resolver looks up a wallet's position in a Morpho Blue market with a
// three-tier precedence: live chain read, then mock store, then an explicit
// zero-valued record. A failed chain read degrades the source tag, it never
// surfaces as an error to the caller.
type Resolver struct {
	reader chain.PositionReader
	mocks  *MockStore
	logger *zap.Logger
}

// NewResolver accepts a nil reader; the resolver then serves mock/empty
// records only.
func NewResolver(reader chain.PositionReader, mocks *MockStore, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{reader: reader, mocks: mocks, logger: logger}
}

// Resolve validates inputs, then makes exactly one on-chain attempt before
// falling back. Input validation happens before any network I/O.
func (r *Resolver) Resolve(ctx context.Context, wallet, poolID string) (model.PositionRecord, error) {
	if !common.IsHexAddress(wallet) {
		return model.PositionRecord{}, gwerr.New(gwerr.CodeInvalidAddress, fmt.Sprintf("invalid wallet address: %s", wallet))
	}
	addr := common.HexToAddress(wallet)
	checksummed := addr.Hex()

	marketID, ok := registry.LookupMarket(poolID)
	if !ok {
		return model.PositionRecord{}, gwerr.New(gwerr.CodeUnknownPool, fmt.Sprintf("unknown pool_id: %s", poolID))
	}

	record := model.PositionRecord{
		Wallet:   checksummed,
		PoolID:   poolID,
		MarketID: marketID.Hex(),
	}

	if r.reader != nil {
		pos, err := r.reader.Position(ctx, marketID, addr)
		if err == nil {
			record.SupplyShares = pos.SupplyShares.String()
			record.BorrowShares = pos.BorrowShares.String()
			record.Collateral = pos.Collateral.String()
			record.Source = model.SourceChain
			return record, nil
		}
		r.logger.Warn("on-chain position lookup failed, falling back to mock data",
			zap.String("wallet", checksummed),
			zap.String("pool_id", poolID),
			zap.Error(err),
		)
	}

	if mock, ok := r.mocks.Lookup(checksummed, poolID); ok {
		record.SupplyShares = mock.SupplyShares
		record.BorrowShares = mock.BorrowShares
		record.Collateral = mock.Collateral
		record.Source = model.SourceMock
		return record, nil
	}

	record.SupplyShares = "0"
	record.BorrowShares = "0"
	record.Collateral = "0"
	record.Source = model.SourceEmpty
	return record, nil
}
