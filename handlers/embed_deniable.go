package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/astego/cryptostego/core"
	"github.com/astego/cryptostego/models"
)

// EmbedDeniableHandler runs the C6 dual-payload split over HTTP: two
// payloads, two passphrases, one stego output, two sidecars.
//
//	@Summary		Embed a real and a decoy payload under plausible deniability
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			cover				formData	file	true	"raster cover file"
//	@Param			secret				formData	file	true	"real payload"
//	@Param			decoy_secret		formData	file	true	"decoy payload"
//	@Param			passphrase			formData	string	true	"real payload passphrase"
//	@Param			decoy_passphrase	formData	string	true	"decoy payload passphrase"
//	@Success		200					{object}	DeniableEmbedResponse
//	@Failure		400					{object}	ErrorResponse
//	@Router			/embed-deniable [post]
func (h *Handlers) EmbedDeniableHandler(c *gin.Context) {
	dir, err := os.MkdirTemp("", "cryptostego-embed-deniable-")
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
	realPath, err := stageUpload(c, "secret", dir)
	if err != nil {
		sendError(c, err)
		return
	}
	decoyPath, err := stageUpload(c, "decoy_secret", dir)
	if err != nil {
		sendError(c, err)
		return
	}
	real, err := os.ReadFile(realPath)
	if err != nil {
		sendError(c, models.NewError(models.KindMalformedCover, "failed to read staged secret", err))
		return
	}
	decoy, err := os.ReadFile(decoyPath)
	if err != nil {
		sendError(c, models.NewError(models.KindMalformedCover, "failed to read staged decoy secret", err))
		return
	}

	realPassphrase := c.PostForm("passphrase")
	decoyPassphrase := c.PostForm("decoy_passphrase")
	if realPassphrase == "" || decoyPassphrase == "" {
		sendError(c, models.NewError(models.KindMalformedSidecar, "passphrase and decoy_passphrase are both required", nil))
		return
	}

	opts := models.DeniableEmbedOptions{
		RealCipherID:  models.CipherID(defaultString(c.PostForm("cipher"), string(models.CipherChaCha20Poly1305))),
		DecoyCipherID: models.CipherID(defaultString(c.PostForm("decoy_cipher"), string(models.CipherAES256GCM))),
		RealPassword:  realPassphrase,
		DecoyPassword: decoyPassphrase,
	}

	outPath := filepath.Join(dir, "stego"+filepath.Ext(coverPath))
	realKeyPath := filepath.Join(dir, "real.key")
	decoyKeyPath := filepath.Join(dir, "decoy.key")

	result, err := core.EmbedDeniableFile(coverPath, real, decoy, outPath, realKeyPath, decoyKeyPath, opts)
	if err != nil {
		sendError(c, err)
		return
	}

	stegoB64, err := fileToBase64(result.OutputPath)
	if err != nil {
		sendError(c, err)
		return
	}
	realB64, err := fileToBase64(result.RealSidecarPath)
	if err != nil {
		sendError(c, err)
		return
	}
	decoyB64, err := fileToBase64(result.DecoySidecarPath)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, DeniableEmbedResponse{
		StegoBase64:        stegoB64,
		RealSidecarBase64:  realB64,
		DecoySidecarBase64: decoyB64,
	})
}
