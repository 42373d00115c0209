package contract

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ResultKind tags the variant a Result carries.
type ResultKind int

const (
	KindDefault ResultKind = iota
	KindU256
	KindBool
	KindBytes4
	KindString
	KindAddress
	KindImageInfo
	KindSaleInfo
	KindTxHash
)

// Result is the closed sum of return shapes a contract call can have.
// Exactly one payload field is meaningful, selected by Kind. For mints,
// TokenIDs additionally carries the token ids decoded from the
// transaction receipt.
type Result struct {
	Kind      ResultKind
	U256      *big.Int
	Bool      bool
	Bytes4    [4]byte
	Str       string
	Addr      common.Address
	ImageInfo *ImageInfo
	SaleInfo  *SaleInfo
	TxHash    common.Hash
	TokenIDs  []*big.Int
}

func U256Result(v *big.Int) Result            { return Result{Kind: KindU256, U256: v} }
func BoolResult(v bool) Result                { return Result{Kind: KindBool, Bool: v} }
func Bytes4Result(v [4]byte) Result           { return Result{Kind: KindBytes4, Bytes4: v} }
func StringResult(v string) Result            { return Result{Kind: KindString, Str: v} }
func AddressResult(v common.Address) Result   { return Result{Kind: KindAddress, Addr: v} }
func ImageInfoResult(v ImageInfo) Result      { return Result{Kind: KindImageInfo, ImageInfo: &v} }
func SaleInfoResult(v SaleInfo) Result        { return Result{Kind: KindSaleInfo, SaleInfo: &v} }
func TxHashResult(h common.Hash) Result       { return Result{Kind: KindTxHash, TxHash: h} }

// MarshalJSON renders the result externally tagged, e.g.
// {"U256":"12"} or {"TxHash":"0x..."}; the default variant is the bare
// string "Default".
func (r Result) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindU256:
		return json.Marshal(map[string]string{"U256": r.U256.String()})
	case KindBool:
		return json.Marshal(map[string]bool{"Bool": r.Bool})
	case KindBytes4:
		return json.Marshal(map[string]string{"Bytes4": hexutil.Encode(r.Bytes4[:])})
	case KindString:
		return json.Marshal(map[string]string{"String": r.Str})
	case KindAddress:
		return json.Marshal(map[string]string{"Address": r.Addr.Hex()})
	case KindImageInfo:
		return json.Marshal(map[string]*ImageInfo{"ImageInfo": r.ImageInfo})
	case KindSaleInfo:
		return json.Marshal(map[string]*SaleInfo{"SaleInfo": r.SaleInfo})
	case KindTxHash:
		return json.Marshal(map[string]string{"TxHash": r.TxHash.Hex()})
	default:
		return json.Marshal("Default")
	}
}
