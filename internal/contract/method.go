package contract

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Method is the closed catalog of callable contract methods. Each
// variant carries its argument list with concrete types; Client.Call
// dispatches over the catalog and nothing else, so no stringly-typed
// ABI call ever reaches the orchestrator layer.
type Method interface {
	isMethod()
}

// View calls.

type Name struct{}

type Symbol struct{}

type TotalSupply struct{}

type BalanceOf struct {
	Owner common.Address
}

type OwnerOf struct {
	TokenID *big.Int
}

type IsApprovedForAll struct {
	Owner    common.Address
	Operator common.Address
}

type SupportsInterface struct {
	InterfaceID [4]byte
}

type TokenURI struct {
	TokenID *big.Int
}

type GetApproved struct {
	TokenID *big.Int
}

// ImageInfoOf reads the provenance record of one token.
type ImageInfoOf struct {
	TokenID *big.Int
}

// ImageSaleHistoryAt reads one sale-history entry of a token.
type ImageSaleHistoryAt struct {
	TokenID *big.Int
	Index   *big.Int
}

// Transactions.

// SafeTransferFrom selects the bytes-carrying overload when Data is
// non-nil.
type SafeTransferFrom struct {
	From    common.Address
	To      common.Address
	TokenID *big.Int
	Data    []byte
}

type SafeTransferFromWithValue struct {
	From    common.Address
	To      common.Address
	TokenID *big.Int
	Value   *big.Int
}

type TransferFrom struct {
	From    common.Address
	To      common.Address
	TokenID *big.Int
}

type Approve struct {
	To      common.Address
	TokenID *big.Int
}

type SetApprovalForAll struct {
	Operator common.Address
	Approved bool
}

type ModifyImageInfo struct {
	TokenID            *big.Int
	TokenURI           string
	Owner              common.Address
	Watermark          string
	CaptureTime        *big.Int
	CaptureDevice      string
	CaptureCompany     string
	SubmissionTime     *big.Int
	SubmissionReceiver string
}

type ModifyCaptureInfo struct {
	TokenID        *big.Int
	CaptureTime    *big.Int
	CaptureDevice  string
	CaptureCompany string
}

// SafeMint mints a batch of tokens. The metadata vectors are optional
// as a group: either all six are present (full overload) or all six are
// nil (uri-only overload). Any mixed presence is a caller error and is
// rejected before dispatch.
type SafeMint struct {
	To                  common.Address
	Quantity            *big.Int
	TokenURIs           []string
	Watermarks          []string
	CaptureTimes        []*big.Int
	CaptureDevices      []string
	CaptureCompanies    []string
	SubmissionTimes     []*big.Int
	SubmissionReceivers []string
}

// WithMetadata reports whether the full-metadata overload applies.
func (m SafeMint) WithMetadata() bool {
	return m.Watermarks != nil || m.CaptureTimes != nil || m.CaptureDevices != nil ||
		m.CaptureCompanies != nil || m.SubmissionTimes != nil || m.SubmissionReceivers != nil
}

// MetadataConsistent reports whether the metadata vectors are legal:
// all present or all absent.
func (m SafeMint) MetadataConsistent() bool {
	if !m.WithMetadata() {
		return true
	}
	return m.Watermarks != nil && m.CaptureTimes != nil && m.CaptureDevices != nil &&
		m.CaptureCompanies != nil && m.SubmissionTimes != nil && m.SubmissionReceivers != nil
}

type SafeBatchTransferFrom struct {
	By       common.Address
	From     common.Address
	To       common.Address
	TokenIDs []*big.Int
	Data     []byte
}

type BatchTransferFrom struct {
	From     common.Address
	To       common.Address
	TokenIDs []*big.Int
}

type Burn struct {
	TokenID *big.Int
}

type BatchBurn struct {
	TokenIDs []*big.Int
}

func (Name) isMethod()                      {}
func (Symbol) isMethod()                    {}
func (TotalSupply) isMethod()               {}
func (BalanceOf) isMethod()                 {}
func (OwnerOf) isMethod()                   {}
func (IsApprovedForAll) isMethod()          {}
func (SupportsInterface) isMethod()         {}
func (TokenURI) isMethod()                  {}
func (GetApproved) isMethod()               {}
func (ImageInfoOf) isMethod()               {}
func (ImageSaleHistoryAt) isMethod()        {}
func (SafeTransferFrom) isMethod()          {}
func (SafeTransferFromWithValue) isMethod() {}
func (TransferFrom) isMethod()              {}
func (Approve) isMethod()                   {}
func (SetApprovalForAll) isMethod()         {}
func (ModifyImageInfo) isMethod()           {}
func (ModifyCaptureInfo) isMethod()         {}
func (SafeMint) isMethod()                  {}
func (SafeBatchTransferFrom) isMethod()     {}
func (BatchTransferFrom) isMethod()         {}
func (Burn) isMethod()                      {}
func (BatchBurn) isMethod()                 {}
