package handler

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kenijima/chainmark/internal/contract"
	"github.com/kenijima/chainmark/internal/service"
)

type ChainHandler interface {
	UploadImageInfo(c *gin.Context)
	GetImageInfo(c *gin.Context)
}

type chainHandler struct {
	chain *service.ChainService
	log   *logrus.Logger
}

func NewChainHandler(chain *service.ChainService, log *logrus.Logger) ChainHandler {
	return &chainHandler{chain: chain, log: log}
}

// UploadImageInfoRequest mints provenance tokens. The metadata vectors
// are optional as a group; omitting all of them selects the uri-only
// mint.
type UploadImageInfoRequest struct {
	TokenURIs           []string `json:"token_uris"`
	To                  string   `json:"to"`
	Quantity            uint64   `json:"quantity"`
	Watermarks          []string `json:"watermarks"`
	CaptureTimes        []uint64 `json:"capture_times"`
	CaptureDevices      []string `json:"capture_devices"`
	CaptureCompanies    []string `json:"capture_companies"`
	SubmissionTimes     []uint64 `json:"submission_times"`
	SubmissionReceivers []string `json:"submission_receivers"`
}

type UploadImageInfoResponse struct {
	Result  contract.Result `json:"result"`
	TokenID []*big.Int      `json:"token_id"`
}

type GetImageInfoRequest struct {
	ImageID uint64 `json:"image_id"`
}

type GetImageInfoResponse struct {
	Result  contract.Result `json:"result"`
	Message string          `json:"message"`
}

func (h *chainHandler) UploadImageInfo(c *gin.Context) {
	var req UploadImageInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for mint: %v", err)
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	if !common.IsHexAddress(req.To) {
		c.String(http.StatusBadRequest, "to is not a valid address")
		return
	}

	mint := contract.SafeMint{
		To:                  common.HexToAddress(req.To),
		Quantity:            new(big.Int).SetUint64(req.Quantity),
		TokenURIs:           req.TokenURIs,
		Watermarks:          req.Watermarks,
		CaptureTimes:        bigInts(req.CaptureTimes),
		CaptureDevices:      req.CaptureDevices,
		CaptureCompanies:    req.CaptureCompanies,
		SubmissionTimes:     bigInts(req.SubmissionTimes),
		SubmissionReceivers: req.SubmissionReceivers,
	}

	outcome, err := h.chain.Mint(c.Request.Context(), mint)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, UploadImageInfoResponse{Result: outcome.Result, TokenID: outcome.TokenIDs})
}

func (h *chainHandler) GetImageInfo(c *gin.Context) {
	var req GetImageInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		raw := c.Query("image_id")
		if raw == "" {
			c.String(http.StatusBadRequest, "image_id is required")
			return
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.String(http.StatusBadRequest, "image_id is not a number")
			return
		}
		req.ImageID = id
	}

	result, err := h.chain.ImageInfo(c.Request.Context(), new(big.Int).SetUint64(req.ImageID))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, GetImageInfoResponse{Result: result, Message: "Image info fetched successfully"})
}

// bigInts keeps nil as nil so absent metadata vectors stay absent.
func bigInts(values []uint64) []*big.Int {
	if values == nil {
		return nil
	}
	out := make([]*big.Int, len(values))
	for i, v := range values {
		out[i] = new(big.Int).SetUint64(v)
	}
	return out
}
