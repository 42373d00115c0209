package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kenijima/chainmark/internal/middleware"
	"github.com/kenijima/chainmark/internal/service"
)

type ImageHandler interface {
	Upload(c *gin.Context)
	Get(c *gin.Context)
}

type imageHandler struct {
	images *service.ImageService
	log    *logrus.Logger
}

func NewImageHandler(images *service.ImageService, log *logrus.Logger) ImageHandler {
	return &imageHandler{images: images, log: log}
}

type UploadImageRequest struct {
	Base64Image string `json:"base64_image"`
}

type UploadImageResponse struct {
	CID     string `json:"cid"`
	Message string `json:"message"`
}

type GetImageRequest struct {
	ImageCID string `json:"image_cid"`
}

type GetImageResponse struct {
	ImageBase64 string `json:"image_base64"`
	Message     string `json:"message"`
}

func (h *imageHandler) Upload(c *gin.Context) {
	var req UploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for image upload: %v", err)
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	username := c.MustGet(middleware.UsernameKey).(string)

	cid, err := h.images.Submit(c.Request.Context(), username, req.Base64Image)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, UploadImageResponse{CID: cid, Message: "Image uploaded successfully"})
}

// Get returns the pinned image as base64. The cid comes from the JSON
// body, or from the image_cid query parameter for clients that cannot
// put a body on a GET.
func (h *imageHandler) Get(c *gin.Context) {
	var req GetImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageCID == "" {
		req.ImageCID = c.Query("image_cid")
	}
	if req.ImageCID == "" {
		c.String(http.StatusBadRequest, "image_cid is required")
		return
	}

	body, err := h.images.Fetch(c.Request.Context(), req.ImageCID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, GetImageResponse{ImageBase64: body, Message: "Image fetched successfully"})
}
