package contract

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/kenijima/chainmark/internal/apperr"
)

// Client executes calls against the provenance contract. It is built
// per request from static configuration: the signer key, the account it
// must correspond to, and the contract address. View calls return on
// RPC completion; transactions return after the receipt is observed.
type Client struct {
	contractABI abi.ABI
	eth         *ethclient.Client
	key         *ecdsa.PrivateKey
	account     common.Address
	contract    common.Address
	chainID     *big.Int
	logger      *zap.Logger
}

// NewClient connects to the RPC endpoint and validates the signer. The
// derived signer address must equal expectedAccount; a block-number
// query doubles as the connectivity handshake.
func NewClient(ctx context.Context, rpcURL, privateKeyHex, expectedAccount, contractAddress string, logger *zap.Logger) (*Client, error) {
	contractABI, err := tokenInterface()
	if err != nil {
		return nil, apperr.ContractInitialize("Invalid contract interface", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, apperr.ContractInitialize("Invalid signer key", err)
	}

	account := crypto.PubkeyToAddress(key.PublicKey)
	if !common.IsHexAddress(expectedAccount) || account != common.HexToAddress(expectedAccount) {
		return nil, apperr.ContractInitialize("privateKey and user_address are not matched", nil)
	}

	if !common.IsHexAddress(contractAddress) {
		return nil, apperr.ContractInitialize("Invalid contract address", nil)
	}

	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, apperr.ContractInitialize("Failed to connect to rpc endpoint", err)
	}

	latest, err := eth.BlockNumber(ctx)
	if err != nil {
		eth.Close()
		return nil, apperr.ContractInitialize("Failed to query block number", err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, apperr.ContractInitialize("Failed to query chain id", err)
	}

	logger.Info("Connected to blockchain",
		zap.Uint64("latest_block", latest),
		zap.String("chain_id", chainID.String()),
		zap.String("account", account.Hex()))

	return &Client{
		contractABI: contractABI,
		eth:         eth,
		key:         key,
		account:     account,
		contract:    common.HexToAddress(contractAddress),
		chainID:     chainID,
		logger:      logger,
	}, nil
}

func (c *Client) Close() {
	c.eth.Close()
}

// Account returns the signer's address.
func (c *Client) Account() common.Address {
	return c.account
}

// Call dispatches one method from the catalog and returns its result.
func (c *Client) Call(ctx context.Context, m Method) (Result, error) {
	switch m := m.(type) {
	case Name:
		return c.stringView(ctx, "name")
	case Symbol:
		return c.stringView(ctx, "symbol")
	case TotalSupply:
		out, err := c.view(ctx, "totalSupply", 0)
		if err != nil {
			return Result{}, err
		}
		return U256Result(out[0].(*big.Int)), nil
	case BalanceOf:
		out, err := c.view(ctx, "balanceOf", 1, m.Owner)
		if err != nil {
			return Result{}, err
		}
		return U256Result(out[0].(*big.Int)), nil
	case OwnerOf:
		out, err := c.view(ctx, "ownerOf", 1, m.TokenID)
		if err != nil {
			return Result{}, err
		}
		return AddressResult(out[0].(common.Address)), nil
	case GetApproved:
		out, err := c.view(ctx, "getApproved", 1, m.TokenID)
		if err != nil {
			return Result{}, err
		}
		return AddressResult(out[0].(common.Address)), nil
	case IsApprovedForAll:
		out, err := c.view(ctx, "isApprovedForAll", 2, m.Owner, m.Operator)
		if err != nil {
			return Result{}, err
		}
		return BoolResult(out[0].(bool)), nil
	case SupportsInterface:
		out, err := c.view(ctx, "supportsInterface", 1, m.InterfaceID)
		if err != nil {
			return Result{}, err
		}
		return BoolResult(out[0].(bool)), nil
	case TokenURI:
		out, err := c.view(ctx, "tokenURI", 1, m.TokenID)
		if err != nil {
			return Result{}, err
		}
		return StringResult(out[0].(string)), nil
	case ImageInfoOf:
		out, err := c.view(ctx, "_imageInfo", 1, m.TokenID)
		if err != nil {
			return Result{}, err
		}
		info := *abi.ConvertType(out[0], new(ImageInfo)).(*ImageInfo)
		return ImageInfoResult(info), nil
	case ImageSaleHistoryAt:
		out, err := c.view(ctx, "_imageSaleHistory", 2, m.TokenID, m.Index)
		if err != nil {
			return Result{}, err
		}
		sale := *abi.ConvertType(out[0], new(SaleInfo)).(*SaleInfo)
		return SaleInfoResult(sale), nil
	case SafeTransferFrom:
		if m.Data == nil {
			return c.transact(ctx, "safeTransferFrom", 3, m.From, m.To, m.TokenID)
		}
		return c.transact(ctx, "safeTransferFrom", 4, m.From, m.To, m.TokenID, m.Data)
	case SafeTransferFromWithValue:
		return c.transact(ctx, "safeTransferFromWithValue", 4, m.From, m.To, m.TokenID, m.Value)
	case TransferFrom:
		return c.transact(ctx, "transferFrom", 3, m.From, m.To, m.TokenID)
	case Approve:
		return c.transact(ctx, "approve", 2, m.To, m.TokenID)
	case SetApprovalForAll:
		return c.transact(ctx, "setApprovalForAll", 2, m.Operator, m.Approved)
	case ModifyImageInfo:
		return c.transact(ctx, "modifyImageInfo", 9,
			m.TokenID, m.TokenURI, m.Owner, m.Watermark,
			m.CaptureTime, m.CaptureDevice, m.CaptureCompany,
			m.SubmissionTime, m.SubmissionReceiver)
	case ModifyCaptureInfo:
		return c.transact(ctx, "modifyCaptureInfo", 4, m.TokenID, m.CaptureTime, m.CaptureDevice, m.CaptureCompany)
	case SafeMint:
		return c.safeMint(ctx, m)
	case SafeBatchTransferFrom:
		return c.transact(ctx, "safeBatchTransferFrom", 5, m.By, m.From, m.To, m.TokenIDs, m.Data)
	case BatchTransferFrom:
		return c.transact(ctx, "batchTransferFrom", 3, m.From, m.To, m.TokenIDs)
	case Burn:
		return c.transact(ctx, "burn", 1, m.TokenID)
	case BatchBurn:
		return c.transact(ctx, "batchBurn", 1, m.TokenIDs)
	default:
		return Result{}, apperr.ContractCall(fmt.Errorf("unknown method %T", m))
	}
}

func (c *Client) safeMint(ctx context.Context, m SafeMint) (Result, error) {
	if !m.MetadataConsistent() {
		return Result{}, apperr.ContractCall(fmt.Errorf("safeMint metadata vectors must be all present or all absent"))
	}

	var (
		result Result
		err    error
	)
	if m.WithMetadata() {
		result, err = c.transact(ctx, "safeMint", 9,
			m.To, m.Quantity, m.TokenURIs,
			m.Watermarks, m.CaptureTimes, m.CaptureDevices,
			m.CaptureCompanies, m.SubmissionTimes, m.SubmissionReceivers)
	} else {
		result, err = c.transact(ctx, "safeMint", 3, m.To, m.Quantity, m.TokenURIs)
	}
	return result, err
}

func (c *Client) stringView(ctx context.Context, name string) (Result, error) {
	out, err := c.view(ctx, name, 0)
	if err != nil {
		return Result{}, err
	}
	return StringResult(out[0].(string)), nil
}

func (c *Client) view(ctx context.Context, name string, argc int, args ...interface{}) ([]interface{}, error) {
	method, err := methodBySignature(c.contractABI, name, argc)
	if err != nil {
		return nil, apperr.ContractCall(err)
	}

	input, err := method.Inputs.Pack(args...)
	if err != nil {
		return nil, apperr.ContractCall(err)
	}

	data := append(append([]byte{}, method.ID...), input...)
	output, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		return nil, apperr.ContractCall(err)
	}

	values, err := method.Outputs.Unpack(output)
	if err != nil {
		return nil, apperr.ContractCall(err)
	}
	return values, nil
}

// transact packs, signs, sends and awaits one transaction. The returned
// result carries the transaction hash and, when the receipt contains
// mint events against this contract, the freshly minted token ids.
func (c *Client) transact(ctx context.Context, name string, argc int, args ...interface{}) (Result, error) {
	method, err := methodBySignature(c.contractABI, name, argc)
	if err != nil {
		return Result{}, apperr.ContractCall(err)
	}

	input, err := method.Inputs.Pack(args...)
	if err != nil {
		return Result{}, apperr.ContractCall(err)
	}
	data := append(append([]byte{}, method.ID...), input...)

	nonce, err := c.eth.PendingNonceAt(ctx, c.account)
	if err != nil {
		return Result{}, apperr.SendTransaction(err)
	}

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return Result{}, apperr.SendTransaction(err)
	}

	gasLimit, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From: c.account,
		To:   &c.contract,
		Data: data,
	})
	if err != nil {
		return Result{}, apperr.SendTransaction(err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &c.contract,
		Data:     data,
	})

	signed, err := types.SignTx(tx, types.NewEIP155Signer(c.chainID), c.key)
	if err != nil {
		return Result{}, apperr.SendTransaction(err)
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return Result{}, apperr.SendTransaction(err)
	}

	receipt, err := bind.WaitMined(ctx, c.eth, signed)
	if err != nil {
		return Result{}, apperr.WatchTransaction(err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return Result{}, apperr.WatchTransaction(fmt.Errorf("transaction %s reverted", signed.Hash().Hex()))
	}

	c.logger.Info("Transaction mined",
		zap.String("method", name),
		zap.String("tx_hash", signed.Hash().Hex()),
		zap.Uint64("block", receipt.BlockNumber.Uint64()))

	result := TxHashResult(signed.Hash())
	result.TokenIDs = mintedTokenIDs(c.contractABI, c.contract, receipt)
	return result, nil
}

// mintedTokenIDs extracts the token ids of mint events (transfers from
// the zero address) emitted by the contract in this receipt. Reading
// the ids from the receipt, instead of diffing totalSupply around the
// send, stays exact under concurrent minters.
func mintedTokenIDs(contractABI abi.ABI, contract common.Address, receipt *types.Receipt) []*big.Int {
	transferID := contractABI.Events["Transfer"].ID
	zero := common.Hash{}

	var ids []*big.Int
	for _, log := range receipt.Logs {
		if log.Address != contract || len(log.Topics) != 4 {
			continue
		}
		if log.Topics[0] != transferID || log.Topics[1] != zero {
			continue
		}
		ids = append(ids, new(big.Int).SetBytes(log.Topics[3].Bytes()))
	}
	return ids
}
