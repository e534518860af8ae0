package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func noisyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	state := uint32(22222)
	next := func() byte {
		state = state*1664525 + 1013904223
		return byte(state >> 24)
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: next(), G: next(), B: next(), A: 0xFF})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for name, content := range files {
		fw, err := w.CreateFormFile(name, name+".png")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return body, w.FormDataContentType()
}

func newTestRouter() *gin.Engine {
	h := NewHandlers()
	r := gin.New()
	r.GET("/health", h.HealthHandler)
	r.POST("/capacity", h.CapacityHandler)
	r.POST("/embed", h.EmbedHandler)
	r.POST("/extract", h.ExtractHandler)
	return r
}

func TestHealthHandler(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Fatalf("status = %q, want healthy", resp.Status)
	}
}

func TestCapacityHandlerRejectsMissingCover(t *testing.T) {
	r := newTestRouter()
	body, contentType := multipartBody(t, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/capacity", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestEmbedExtractHandlerRoundTrip(t *testing.T) {
	r := newTestRouter()
	cover := noisyPNG(t, 48, 48)

	embedBody, embedContentType := multipartBody(t,
		map[string]string{"passphrase": "integration test passphrase", "mode": "adaptive"},
		map[string][]byte{"cover": cover, "secret": []byte("hidden over HTTP")},
	)
	req := httptest.NewRequest(http.MethodPost, "/embed", embedBody)
	req.Header.Set("Content-Type", embedContentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("embed status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var embedResp EmbedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &embedResp); err != nil {
		t.Fatalf("decode embed response: %v", err)
	}
	stego, err := base64.StdEncoding.DecodeString(embedResp.StegoBase64)
	if err != nil {
		t.Fatalf("decode stego base64: %v", err)
	}
	key, err := base64.StdEncoding.DecodeString(embedResp.SidecarBase64)
	if err != nil {
		t.Fatalf("decode sidecar base64: %v", err)
	}

	extractBody, extractContentType := multipartBody(t,
		map[string]string{"passphrase": "integration test passphrase"},
		map[string][]byte{"stego": stego, "key": key},
	)
	req = httptest.NewRequest(http.MethodPost, "/extract", extractBody)
	req.Header.Set("Content-Type", extractContentType)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("extract status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "hidden over HTTP" {
		t.Fatalf("extracted payload = %q, want %q", got, "hidden over HTTP")
	}
}

func TestExtractHandlerWrongPassphraseReturnsUnauthorized(t *testing.T) {
	r := newTestRouter()
	cover := noisyPNG(t, 48, 48)

	embedBody, embedContentType := multipartBody(t,
		map[string]string{"passphrase": "right one"},
		map[string][]byte{"cover": cover, "secret": []byte("classified")},
	)
	req := httptest.NewRequest(http.MethodPost, "/embed", embedBody)
	req.Header.Set("Content-Type", embedContentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("embed status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var embedResp EmbedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &embedResp); err != nil {
		t.Fatalf("decode embed response: %v", err)
	}
	stego, _ := base64.StdEncoding.DecodeString(embedResp.StegoBase64)
	key, _ := base64.StdEncoding.DecodeString(embedResp.SidecarBase64)

	extractBody, extractContentType := multipartBody(t,
		map[string]string{"passphrase": "wrong one"},
		map[string][]byte{"stego": stego, "key": key},
	)
	req = httptest.NewRequest(http.MethodPost, "/extract", extractBody)
	req.Header.Set("Content-Type", extractContentType)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401, body = %s", rec.Code, rec.Body.String())
	}
}
