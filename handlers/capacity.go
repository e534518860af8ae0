package handlers

import (
	"bytes"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/hajimehoshi/go-mp3"

	"github.com/astego/cryptostego/core"
	"github.com/astego/cryptostego/models"
)

// CapacityHandler reports a cover's usable payload size under both position
// modes. An optional "preview" MP3 file (not a supported cover format, see
// DESIGN.md) is decoded best-effort purely to report a duration estimate
// alongside the capacity figures, the way the teacher's capacity endpoint
// reported audio metadata next to its LSB capacity table.
//
//	@Summary		Calculate cover capacity
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			cover	formData	file	true	"cover file (png, jpg, or wav)"
//	@Success		200		{object}	CapacityResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/capacity [post]
func (h *Handlers) CapacityHandler(c *gin.Context) {
	dir, err := os.MkdirTemp("", "cryptostego-capacity-")
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

	adaptive, err := core.Capacity(coverPath, models.ModeAdaptive)
	if err != nil {
		sendError(c, err)
		return
	}
	sequential, err := core.Capacity(coverPath, models.ModeSequential)
	if err != nil {
		sendError(c, err)
		return
	}

	resp := CapacityResponse{AdaptiveBytes: adaptive, SequentialBytes: sequential}

	if result, err := core.Score(coverPath); err == nil {
		resp.Score = result.Score
		resp.Label = string(result.Label)
	}

	if fh, err := c.FormFile("preview"); err == nil {
		f, openErr := fh.Open()
		if openErr == nil {
			defer f.Close()
			if d, decodeErr := decodeMP3Duration(f); decodeErr == nil {
				resp.PreviewDurationSeconds = d
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// decodeMP3Duration estimates an MP3 stream's playback length from its
// decoded PCM sample count, the same arithmetic the teacher's removed
// controller.go used for its capacity-by-LSB-count table.
func decodeMP3Duration(r io.Reader) (float64, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return 0, err
	}
	decoder, err := mp3.NewDecoder(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return 0, err
	}
	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return 0, err
	}
	const bytesPerSampleStereo16 = 4
	samples := len(pcm) / bytesPerSampleStereo16
	return float64(samples) / float64(decoder.SampleRate()), nil
}
