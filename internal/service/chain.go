package service

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"github.com/kenijima/chainmark/internal/apperr"
	"github.com/kenijima/chainmark/internal/contract"
)

// Ledger executes one contract call. The concrete client holds an RPC
// connection, so callers close it when done with the request.
type Ledger interface {
	Call(ctx context.Context, m contract.Method) (contract.Result, error)
	Close()
}

// LedgerDialer builds a ledger client from static configuration. The
// client is constructed per request; it is cheap and carries no state
// beyond its connection.
type LedgerDialer func(ctx context.Context) (Ledger, error)

// MintOutcome is the result of a mint: the transaction receipt hash and
// the token ids this call created.
type MintOutcome struct {
	Result   contract.Result
	TokenIDs []*big.Int
}

// ChainService exposes the provenance ledger to the HTTP surface.
type ChainService struct {
	dial   LedgerDialer
	logger *zap.Logger
}

func NewChainService(dial LedgerDialer, logger *zap.Logger) *ChainService {
	return &ChainService{dial: dial, logger: logger}
}

// Mint registers provenance records on the contract. Token ids come
// from the receipt's mint events; when the node returns no logs the
// supply delta around the transaction stands in, which over-counts
// under concurrent minters.
func (s *ChainService) Mint(ctx context.Context, m contract.SafeMint) (MintOutcome, error) {
	if !m.MetadataConsistent() {
		return MintOutcome{}, apperr.InvalidArgument("metadata vectors must be all present or all absent")
	}

	ledger, err := s.dial(ctx)
	if err != nil {
		return MintOutcome{}, err
	}
	defer ledger.Close()

	before, err := ledger.Call(ctx, contract.TotalSupply{})
	if err != nil {
		return MintOutcome{}, err
	}

	result, err := ledger.Call(ctx, m)
	if err != nil {
		return MintOutcome{}, err
	}

	tokenIDs := result.TokenIDs
	if len(tokenIDs) == 0 {
		after, err := ledger.Call(ctx, contract.TotalSupply{})
		if err != nil {
			return MintOutcome{}, err
		}
		tokenIDs = supplyRange(before.U256, after.U256)
	}

	s.logger.Info("Minted provenance tokens",
		zap.String("tx_hash", result.TxHash.Hex()),
		zap.Int("count", len(tokenIDs)))

	return MintOutcome{Result: result, TokenIDs: tokenIDs}, nil
}

// ImageInfo reads the provenance record of one token.
func (s *ChainService) ImageInfo(ctx context.Context, tokenID *big.Int) (contract.Result, error) {
	ledger, err := s.dial(ctx)
	if err != nil {
		return contract.Result{}, err
	}
	defer ledger.Close()

	return ledger.Call(ctx, contract.ImageInfoOf{TokenID: tokenID})
}

// supplyRange lists the token ids in [before, after).
func supplyRange(before, after *big.Int) []*big.Int {
	var ids []*big.Int
	for id := new(big.Int).Set(before); id.Cmp(after) < 0; id = new(big.Int).Add(id, big.NewInt(1)) {
		ids = append(ids, new(big.Int).Set(id))
	}
	return ids
}
