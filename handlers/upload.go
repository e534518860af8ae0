package handlers

import (
	"encoding/base64"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/astego/cryptostego/models"
)

// stageUpload writes a multipart file into dir, preserving its original
// extension so core's detectFormat can dispatch on it. core's operations
// are file-path oriented (spec.md §6's embed/extract take cover_path and
// stego_path, not byte buffers), so every handler that calls into core has
// to round-trip an upload through disk first.
func stageUpload(c *gin.Context, field, dir string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", models.NewError(models.KindMalformedCover, "missing form file "+field, err)
	}
	dst := filepath.Join(dir, field+filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", models.NewError(models.KindMalformedCover, "failed to stage uploaded file "+field, err)
	}
	return dst, nil
}

func fileToBase64(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", models.NewError(models.KindMalformedSidecar, "failed to read output file "+path, err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
