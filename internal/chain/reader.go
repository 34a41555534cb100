package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gwerr "github.com/ggonzalez94/agent-gateway/internal/errors"
	"github.com/ggonzalez94/agent-gateway/internal/registry"
)

// Position is the raw 3-tuple returned by the lens position view.
type Position struct {
	SupplyShares *big.Int
	BorrowShares *big.Int
	Collateral   *big.Int
}

// PositionReader is the injected call boundary between the resolver and the
// chain. ethclient-backed in production, faked in tests.
type PositionReader interface {
	Position(ctx context.Context, market common.Hash, user common.Address) (Position, error)
}

// Reader issues read-only eth_call requests against the Morpho lens contract.
type Reader struct {
	caller   ethereum.ContractCaller
	contract common.Address
	lensABI  abi.ABI
}

// NewReader builds a Reader over any ContractCaller (ethclient.Client
// satisfies it).
func NewReader(caller ethereum.ContractCaller, contract common.Address) (*Reader, error) {
	parsed, err := abi.JSON(strings.NewReader(registry.MorphoLensABI))
	if err != nil {
		return nil, gwerr.Wrap(gwerr.CodeInternal, "parse lens abi", err)
	}
	return &Reader{caller: caller, contract: contract, lensABI: parsed}, nil
}

// Position performs exactly one eth_call against the latest block. Any
// failure (network, revert, malformed response) maps to CodeUnavailable so
// the resolver can fall back without retrying.
func (r *Reader) Position(ctx context.Context, market common.Hash, user common.Address) (Position, error) {
	data, err := r.lensABI.Pack("position", [32]byte(market), user)
	if err != nil {
		return Position{}, gwerr.Wrap(gwerr.CodeInternal, "pack position call", err)
	}
	msg := ethereum.CallMsg{To: &r.contract, Data: data}
	raw, err := r.caller.CallContract(ctx, msg, nil)
	if err != nil {
		return Position{}, gwerr.Wrap(gwerr.CodeUnavailable, "position call failed", err)
	}
	values, err := r.lensABI.Unpack("position", raw)
	if err != nil {
		return Position{}, gwerr.Wrap(gwerr.CodeUnavailable, "decode position result", err)
	}
	if len(values) != 3 {
		return Position{}, gwerr.New(gwerr.CodeUnavailable, fmt.Sprintf("position returned %d values, want 3", len(values)))
	}
	pos := Position{}
	fields := []**big.Int{&pos.SupplyShares, &pos.BorrowShares, &pos.Collateral}
	for i, value := range values {
		amount, ok := value.(*big.Int)
		if !ok {
			return Position{}, gwerr.New(gwerr.CodeUnavailable, "position returned non-integer value")
		}
		*fields[i] = amount
	}
	return pos, nil
}
