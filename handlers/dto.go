package handlers

// ErrorResponse is the JSON error envelope, adapted from the teacher's
// models.ErrorResponse/ErrorDetail shape.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// HealthResponse mirrors the teacher's health payload shape.
type HealthResponse struct {
	Status    string `json:"status"`
	UptimeSec int64  `json:"uptime_seconds"`
	Version   string `json:"version"`
}

// CapacityResponse reports how many payload bytes fit a cover under both
// position modes, plus a best-effort duration estimate when the caller also
// attaches an MP3 preview of the same audio (see CapacityHandler).
type CapacityResponse struct {
	AdaptiveBytes           int     `json:"adaptive_bytes"`
	SequentialBytes         int     `json:"sequential_bytes"`
	Score                   int     `json:"score,omitempty"`
	Label                   string  `json:"label,omitempty"`
	PreviewDurationSeconds  float64 `json:"preview_duration_seconds,omitempty"`
}

// EmbedResponse carries both output artifacts of an embed call: the stego
// file can't be extracted from without its sidecar, so both travel together
// in one JSON response rather than the teacher's single binary download.
type EmbedResponse struct {
	StegoBase64   string `json:"stego_base64"`
	SidecarBase64 string `json:"sidecar_base64"`
}

// DeniableEmbedResponse is EmbedResponse's two-sidecar counterpart for
// /embed-deniable.
type DeniableEmbedResponse struct {
	StegoBase64         string `json:"stego_base64"`
	RealSidecarBase64   string `json:"real_sidecar_base64"`
	DecoySidecarBase64  string `json:"decoy_sidecar_base64"`
}
