package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/astego/cryptostego/core"
	"github.com/astego/cryptostego/models"
)

// EmbedHandler conceals an uploaded payload inside an uploaded cover and
// returns both the stego file and its sidecar key, base64-encoded.
//
//	@Summary		Embed a payload into a cover
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			cover		formData	file	true	"cover file"
//	@Param			secret		formData	file	true	"payload to conceal"
//	@Param			cipher		formData	string	false	"AEAD cipher ID"
//	@Param			mode		formData	string	false	"adaptive or sequential"
//	@Param			passphrase	formData	string	true	"payload passphrase"
//	@Success		200			{object}	EmbedResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/embed [post]
func (h *Handlers) EmbedHandler(c *gin.Context) {
	dir, err := os.MkdirTemp("", "cryptostego-embed-")
	if err != nil {
		sendError(c, models.NewError(models.KindMalformedCover, "failed to allocate scratch dir", err))
		return
	}
	defer os.RemoveAll(dir)

	coverPath, err := stageUpload(c, "cover", dir)
	if err != nil {
		sendError(c, err)
		return
	}
	secretPath, err := stageUpload(c, "secret", dir)
	if err != nil {
		sendError(c, err)
		return
	}
	secret, err := os.ReadFile(secretPath)
	if err != nil {
		sendError(c, models.NewError(models.KindMalformedCover, "failed to read staged secret", err))
		return
	}

	passphrase := c.PostForm("passphrase")
	if passphrase == "" {
		sendError(c, models.NewError(models.KindMalformedSidecar, "passphrase is required", nil))
		return
	}

	opts := models.EmbedOptions{
		CipherID:   models.CipherID(defaultString(c.PostForm("cipher"), string(models.CipherChaCha20Poly1305))),
		Mode:       models.StegMode(defaultString(c.PostForm("mode"), string(models.ModeAdaptive))),
		Passphrase: passphrase,
		ECC:        c.PostForm("ecc") == "true",
	}

	outPath := filepath.Join(dir, "stego"+filepath.Ext(coverPath))
	keyPath := filepath.Join(dir, "stego.key")
	if err := core.EmbedFile(coverPath, secret, outPath, keyPath, opts); err != nil {
		sendError(c, err)
		return
	}

	stegoB64, err := fileToBase64(outPath)
	if err != nil {
		sendError(c, err)
		return
	}
	keyB64, err := fileToBase64(keyPath)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, EmbedResponse{StegoBase64: stegoB64, SidecarBase64: keyB64})
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
