package handlers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/astego/cryptostego/core"
	"github.com/astego/cryptostego/models"
)

// ExtractHandler recovers a payload from a stego file given its sidecar
// key and passphrase, returning the raw payload bytes as a download.
//
//	@Summary		Extract a payload from a stego file
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		application/octet-stream
//	@Param			stego		formData	file	true	"stego file"
//	@Param			key			formData	file	true	"sidecar key file"
//	@Param			passphrase	formData	string	true	"payload passphrase"
//	@Success		200			{file}		binary
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Router			/extract [post]
func (h *Handlers) ExtractHandler(c *gin.Context) {
	dir, err := os.MkdirTemp("", "cryptostego-extract-")
	if err != nil {
		sendError(c, models.NewError(models.KindMalformedCover, "failed to allocate scratch dir", err))
		return
	}
	defer os.RemoveAll(dir)

	stegoPath, err := stageUpload(c, "stego", dir)
	if err != nil {
		sendError(c, err)
		return
	}
	keyPath, err := stageUpload(c, "key", dir)
	if err != nil {
		sendError(c, err)
		return
	}

	passphrase := c.PostForm("passphrase")
	if passphrase == "" {
		sendError(c, models.NewError(models.KindMalformedSidecar, "passphrase is required", nil))
		return
	}

	payload, err := core.ExtractFile(stegoPath, keyPath, passphrase)
	if err != nil {
		sendError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "payload.bin"))
	c.Data(http.StatusOK, "application/octet-stream", payload)
}
