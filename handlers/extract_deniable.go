package handlers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/astego/cryptostego/core"
	"github.com/astego/cryptostego/models"
)

// ExtractDeniableHandler recovers whichever half a single sidecar and
// passphrase identify. Nothing in the request or response distinguishes a
// "real" recovery from a "decoy" one.
//
//	@Summary		Extract one half of a deniable stego
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		application/octet-stream
//	@Param			stego		formData	file	true	"stego file"
//	@Param			key			formData	file	true	"sidecar key file for the half to recover"
//	@Param			passphrase	formData	string	true	"passphrase for that half"
//	@Success		200			{file}		binary
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Router			/extract-deniable [post]
func (h *Handlers) ExtractDeniableHandler(c *gin.Context) {
	dir, err := os.MkdirTemp("", "cryptostego-extract-deniable-")
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

	payload, err := core.ExtractDeniableFile(stegoPath, keyPath, passphrase)
	if err != nil {
		sendError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "payload.bin"))
	c.Data(http.StatusOK, "application/octet-stream", payload)
}
