package models

// CoverFormat identifies which codec variant a cover file belongs to.
type CoverFormat string

const (
	FormatRasterPNG CoverFormat = "png"
	FormatJPEG      CoverFormat = "jpeg"
	FormatWAV       CoverFormat = "wav"
)

// StegMode selects the position-engine strategy for raster covers. JPEG and
// WAV covers imply their own mode and ignore this field.
type StegMode string

const (
	ModeAdaptive   StegMode = "adaptive"
	ModeSequential StegMode = "sequential"
)

func (m StegMode) IsValid() bool {
	return m == ModeAdaptive || m == ModeSequential
}

// CipherID names one of the three supported AEAD algorithms (spec §4.5).
type CipherID string

const (
	CipherAscon128           CipherID = "Ascon-128"
	CipherChaCha20Poly1305   CipherID = "ChaCha20-Poly1305"
	CipherAES256GCM          CipherID = "AES-256-GCM"
)

// CipherSpec describes the key/nonce sizes for a cipher ID.
type CipherSpec struct {
	ID         CipherID
	KeyBytes   int
	NonceBytes int
}

var SupportedCiphers = []CipherSpec{
	{ID: CipherAscon128, KeyBytes: 16, NonceBytes: 16},
	{ID: CipherChaCha20Poly1305, KeyBytes: 32, NonceBytes: 12},
	{ID: CipherAES256GCM, KeyBytes: 32, NonceBytes: 12},
}

// LookupCipher returns the spec for id, or ok=false if unknown.
func LookupCipher(id CipherID) (CipherSpec, bool) {
	for _, c := range SupportedCiphers {
		if c.ID == id {
			return c, true
		}
	}
	return CipherSpec{}, false
}

// KDFParams are the fixed Argon2id parameters of spec §4.5.
type KDFParams struct {
	Time    uint32
	MemKiB  uint32
	Threads uint8
	KeyLen  uint32
}

var DefaultKDFParams = KDFParams{Time: 3, MemKiB: 65536, Threads: 4, KeyLen: 32}

// Envelope is the AEAD output of spec §3: ciphertext already contains the
// authentication tag.
type Envelope struct {
	CipherID   CipherID
	Ciphertext []byte
	Nonce      []byte
	Salt       []byte
}

// DerivedKey is the 32-byte Argon2id output of derive_key, before any
// per-cipher truncation. It also seeds the C3 keyed permutation (the "steg
// key" of spec §4.5).
type DerivedKey struct {
	Bytes [32]byte
}

// Zero overwrites the key material in place. Callers must call this on every
// exit path once the key is no longer needed (spec §5 resource policy).
func (k *DerivedKey) Zero() {
	for i := range k.Bytes {
		k.Bytes[i] = 0
	}
}

// ScoreLabel buckets a numeric cover quality score (spec §4.8).
type ScoreLabel string

const (
	LabelExcellent ScoreLabel = "Excellent"
	LabelGood      ScoreLabel = "Good"
	LabelFair      ScoreLabel = "Fair"
	LabelPoor      ScoreLabel = "Poor"
)

// ScoreResult is the output of the score() core operation.
type ScoreResult struct {
	Score      int
	Label      ScoreLabel
	Entropy    float64
	Texture    float64
	Resolution float64
}

// EmbedOptions configures a single embed() call.
type EmbedOptions struct {
	CipherID   CipherID
	Mode       StegMode
	Passphrase string
	InfoType   string
	ECC        bool
}

// DeniableEmbedOptions configures embed_deniable().
type DeniableEmbedOptions struct {
	RealCipherID  CipherID
	DecoyCipherID CipherID
	RealPassword  string
	DecoyPassword string
}
