package contract

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenInterfaceParses(t *testing.T) {
	contractABI, err := tokenInterface()
	require.NoError(t, err)

	for _, name := range []string{"name", "symbol", "totalSupply", "balanceOf", "ownerOf", "tokenURI", "_imageInfo", "_imageSaleHistory", "burn", "batchBurn"} {
		assert.Contains(t, contractABI.Methods, name, "method %s", name)
	}
	assert.Contains(t, contractABI.Events, "Transfer")
}

func TestMethodBySignatureResolvesOverloads(t *testing.T) {
	contractABI, err := tokenInterface()
	require.NoError(t, err)

	short, err := methodBySignature(contractABI, "safeMint", 3)
	require.NoError(t, err)
	assert.Len(t, short.Inputs, 3)

	full, err := methodBySignature(contractABI, "safeMint", 9)
	require.NoError(t, err)
	assert.Len(t, full.Inputs, 9)
	assert.NotEqual(t, short.ID, full.ID)

	plain, err := methodBySignature(contractABI, "safeTransferFrom", 3)
	require.NoError(t, err)
	withData, err := methodBySignature(contractABI, "safeTransferFrom", 4)
	require.NoError(t, err)
	assert.NotEqual(t, plain.ID, withData.ID)

	_, err = methodBySignature(contractABI, "safeMint", 5)
	assert.Error(t, err)
	_, err = methodBySignature(contractABI, "noSuchMethod", 0)
	assert.Error(t, err)
}

func TestSafeMintMetadataConsistency(t *testing.T) {
	base := SafeMint{
		To:        common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Quantity:  big.NewInt(1),
		TokenURIs: []string{"ipfs://Qm"},
	}
	assert.True(t, base.MetadataConsistent())
	assert.False(t, base.WithMetadata())

	full := base
	full.Watermarks = []string{"wm"}
	full.CaptureTimes = []*big.Int{big.NewInt(1)}
	full.CaptureDevices = []string{"cam"}
	full.CaptureCompanies = []string{"acme"}
	full.SubmissionTimes = []*big.Int{big.NewInt(2)}
	full.SubmissionReceivers = []string{"alice"}
	assert.True(t, full.MetadataConsistent())
	assert.True(t, full.WithMetadata())

	mixed := base
	mixed.Watermarks = []string{"wm"}
	assert.False(t, mixed.MetadataConsistent())
}

func TestResultMarshalJSON(t *testing.T) {
	cases := []struct {
		result Result
		want   string
	}{
		{U256Result(big.NewInt(42)), `{"U256":"42"}`},
		{BoolResult(true), `{"Bool":true}`},
		{StringResult("CMK"), `{"String":"CMK"}`},
		{AddressResult(common.HexToAddress("0x1234567890123456789012345678901234567890")), `{"Address":"0x1234567890123456789012345678901234567890"}`},
		{TxHashResult(common.HexToHash("0xabcd")), `{"TxHash":"0x000000000000000000000000000000000000000000000000000000000000abcd"}`},
		{Result{}, `"Default"`},
	}

	for _, tc := range cases {
		got, err := json.Marshal(tc.result)
		require.NoError(t, err)
		assert.JSONEq(t, tc.want, string(got))
	}
}

func TestMintedTokenIDs(t *testing.T) {
	contractABI, err := tokenInterface()
	require.NoError(t, err)

	contract := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	other := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	transferID := contractABI.Events["Transfer"].ID
	recipient := common.HexToHash("0x1111111111111111111111111111111111111111")

	mintLog := func(addr common.Address, id int64) *types.Log {
		return &types.Log{
			Address: addr,
			Topics: []common.Hash{
				transferID,
				{}, // zero from address marks a mint
				recipient,
				common.BigToHash(big.NewInt(id)),
			},
		}
	}

	receipt := &types.Receipt{Logs: []*types.Log{
		mintLog(contract, 7),
		mintLog(contract, 8),
		mintLog(other, 9), // other contract, skipped
		{ // ordinary transfer, skipped
			Address: contract,
			Topics: []common.Hash{
				transferID,
				recipient,
				common.HexToHash("0x2222222222222222222222222222222222222222"),
				common.BigToHash(big.NewInt(10)),
			},
		},
	}}

	ids := mintedTokenIDs(contractABI, contract, receipt)
	require.Len(t, ids, 2)
	assert.Equal(t, int64(7), ids[0].Int64())
	assert.Equal(t, int64(8), ids[1].Int64())

	assert.Empty(t, mintedTokenIDs(contractABI, contract, &types.Receipt{}))
}

func TestImageInfoString(t *testing.T) {
	info := ImageInfo{
		TokenURIs:      "ipfs://Qm",
		Owner:          common.HexToAddress("0x1234567890123456789012345678901234567890"),
		Watermark:      "wm",
		CaptureTime:    big.NewInt(1700000000),
		CaptureDevice:  "cam-1",
		CaptureCompany: "acme",
		SubmissionTime: big.NewInt(1700000100),
	}
	s := info.String()
	assert.Contains(t, s, "ipfs://Qm")
	assert.Contains(t, s, "cam-1")
}
