package contract

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// SaleInfo is one entry of a token's sale history.
type SaleInfo struct {
	SaleTime  *big.Int       `json:"saleTime"`
	Buyer     common.Address `json:"buyer"`
	SaleValue *big.Int       `json:"saleValue"`
}

func (s SaleInfo) String() string {
	var b strings.Builder
	b.WriteString("------------------------------------")
	fmt.Fprintf(&b, "\n saleTime: %s\n buyer: %s\n saleValue: %s", s.SaleTime, s.Buyer.Hex(), s.SaleValue)
	b.WriteString("\n------------------------------------")
	return b.String()
}

// ImageInfo is the on-ledger provenance record for one token. Field
// names mirror the contract struct members.
type ImageInfo struct {
	TokenURIs          string         `json:"_tokenURIs"`
	Owner              common.Address `json:"owner"`
	Watermark          string         `json:"watermark"`
	CaptureTime        *big.Int       `json:"captureTime"`
	CaptureDevice      string         `json:"captureDevice"`
	CaptureCompany     string         `json:"captureCompany"`
	SubmissionTime     *big.Int       `json:"submissionTime"`
	SubmissionReceiver string         `json:"submissionReceiver"`
	SaleHistory        []SaleInfo     `json:"saleHistory"`
}

func (i ImageInfo) String() string {
	var b strings.Builder
	b.WriteString("=================================")
	fmt.Fprintf(&b, "\n cid: %s\n owner: %s\n watermark: %s\n captureTime: %s\n captureDevice: %s\n captureCompany: %s\n submissionTime: %s\n submissionReceiver: %s",
		i.TokenURIs, i.Owner.Hex(), i.Watermark, i.CaptureTime, i.CaptureDevice, i.CaptureCompany, i.SubmissionTime, i.SubmissionReceiver)
	for _, sale := range i.SaleHistory {
		fmt.Fprintf(&b, "\n saleInfo: %s", sale)
	}
	b.WriteString("\n=================================")
	return b.String()
}
