package contract

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// tokenABI is the interface of the provenance token contract. safeMint
// and safeTransferFrom are overloaded; methods are resolved by raw name
// and argument count, never by the parser's mangled keys.
const tokenABI = `[
  {"type":"function","stateMutability":"view","name":"name","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","stateMutability":"view","name":"symbol","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","stateMutability":"view","name":"totalSupply","inputs":[],"outputs":[{"name":"result","type":"uint256"}]},
  {"type":"function","stateMutability":"view","name":"balanceOf","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","stateMutability":"view","name":"ownerOf","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","stateMutability":"view","name":"isApprovedForAll","inputs":[{"name":"owner","type":"address"},{"name":"operator","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","stateMutability":"view","name":"supportsInterface","inputs":[{"name":"interfaceId","type":"bytes4"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","stateMutability":"view","name":"tokenURI","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","stateMutability":"view","name":"getApproved","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","stateMutability":"view","name":"_imageInfo","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"imageInfo","type":"tuple","components":[
    {"name":"_tokenURIs","type":"string"},
    {"name":"owner","type":"address"},
    {"name":"watermark","type":"string"},
    {"name":"captureTime","type":"uint256"},
    {"name":"captureDevice","type":"string"},
    {"name":"captureCompany","type":"string"},
    {"name":"submissionTime","type":"uint256"},
    {"name":"submissionReceiver","type":"string"},
    {"name":"saleHistory","type":"tuple[]","components":[
      {"name":"saleTime","type":"uint256"},
      {"name":"buyer","type":"address"},
      {"name":"saleValue","type":"uint256"}
    ]}
  ]}]},
  {"type":"function","stateMutability":"view","name":"_imageSaleHistory","inputs":[{"name":"tokenId","type":"uint256"},{"name":"index","type":"uint256"}],"outputs":[{"name":"saleInfo","type":"tuple","components":[
    {"name":"saleTime","type":"uint256"},
    {"name":"buyer","type":"address"},
    {"name":"saleValue","type":"uint256"}
  ]}]},
  {"type":"function","stateMutability":"nonpayable","name":"safeTransferFrom","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"safeTransferFrom","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"},{"name":"_data","type":"bytes"}],"outputs":[]},
  {"type":"function","stateMutability":"payable","name":"safeTransferFromWithValue","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"},{"name":"value","type":"uint256"}],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"transferFrom","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"approve","inputs":[{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"setApprovalForAll","inputs":[{"name":"operator","type":"address"},{"name":"approved","type":"bool"}],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"modifyImageInfo","inputs":[
    {"name":"tokenId","type":"uint256"},
    {"name":"_tokenURIs","type":"string"},
    {"name":"owner","type":"address"},
    {"name":"watermark","type":"string"},
    {"name":"captureTime","type":"uint256"},
    {"name":"captureDevice","type":"string"},
    {"name":"captureCompany","type":"string"},
    {"name":"submissionTime","type":"uint256"},
    {"name":"submissionReceiver","type":"string"}
  ],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"modifyCaptureInfo","inputs":[
    {"name":"tokenId","type":"uint256"},
    {"name":"captureTime","type":"uint256"},
    {"name":"captureDevice","type":"string"},
    {"name":"captureCompany","type":"string"}
  ],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"safeMint","inputs":[
    {"name":"to","type":"address"},
    {"name":"quantity","type":"uint256"},
    {"name":"_tokenURIs","type":"string[]"}
  ],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"safeMint","inputs":[
    {"name":"to","type":"address"},
    {"name":"quantity","type":"uint256"},
    {"name":"_tokenURIs","type":"string[]"},
    {"name":"watermarks","type":"string[]"},
    {"name":"captureTimes","type":"uint256[]"},
    {"name":"captureDevices","type":"string[]"},
    {"name":"captureCompanies","type":"string[]"},
    {"name":"submissionTimes","type":"uint256[]"},
    {"name":"submissionReceivers","type":"string[]"}
  ],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"safeBatchTransferFrom","inputs":[
    {"name":"by","type":"address"},
    {"name":"from","type":"address"},
    {"name":"to","type":"address"},
    {"name":"tokenIds","type":"uint256[]"},
    {"name":"data","type":"bytes"}
  ],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"batchTransferFrom","inputs":[
    {"name":"from","type":"address"},
    {"name":"to","type":"address"},
    {"name":"tokenIds","type":"uint256[]"}
  ],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"burn","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"batchBurn","inputs":[{"name":"tokenIds","type":"uint256[]"}],"outputs":[]},
  {"type":"event","name":"Transfer","inputs":[
    {"name":"from","type":"address","indexed":true},
    {"name":"to","type":"address","indexed":true},
    {"name":"tokenId","type":"uint256","indexed":true}
  ],"anonymous":false}
]`

var (
	parsedABIOnce sync.Once
	parsedABI     abi.ABI
	parsedABIErr  error
)

func tokenInterface() (abi.ABI, error) {
	parsedABIOnce.Do(func() {
		parsedABI, parsedABIErr = abi.JSON(strings.NewReader(tokenABI))
	})
	return parsedABI, parsedABIErr
}

// methodBySignature finds a method by raw name and argument count,
// disambiguating overloads without depending on the parser's renaming.
func methodBySignature(contractABI abi.ABI, name string, argc int) (abi.Method, error) {
	for _, m := range contractABI.Methods {
		if m.RawName == name && len(m.Inputs) == argc {
			return m, nil
		}
	}
	return abi.Method{}, fmt.Errorf("no method %s with %d arguments", name, argc)
}
