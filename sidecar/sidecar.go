// Package sidecar implements the textual key-file format (C7): a flat,
// human-inspectable `field: value` record carrying everything extract
// needs besides the passphrase. No secrets (passphrase, derived key) are
// ever written to it.
//
// No repo in the pack ships an INI-style key file parser, so this is the
// one format in the domain stack built directly against spec.md §4.7's
// field table rather than adapted from a teacher/example parser; it still
// follows the teacher's general preference for small, dependency-free
// textual formats over a heavier serialization library for a structure
// this shallow (see DESIGN.md).
package sidecar

import (
	"encoding/base64"
	"sort"
	"strconv"
	"strings"

	"github.com/astego/cryptostego/models"
)

// Sidecar is the parsed form of a key file.
type Sidecar struct {
	Cipher         models.CipherID
	StegMode       models.StegMode
	Deniable       bool
	Nonce          []byte
	Salt           []byte
	InfoType       string
	PartitionSeed  []byte
	PartitionHalf  int
	ECC            bool
}

// Encode serializes s into the flat textual field: value format. Fields are
// emitted in a fixed order so output is deterministic across calls with the
// same Sidecar value (spec.md §8's "sidecar determinism" property).
func Encode(s Sidecar) []byte {
	fields := []string{
		"cipher: " + string(s.Cipher),
		"nonce: " + base64.StdEncoding.EncodeToString(s.Nonce),
		"salt: " + base64.StdEncoding.EncodeToString(s.Salt),
		"deniable: " + strconv.FormatBool(s.Deniable),
	}
	if s.StegMode != "" {
		fields = append(fields, "steg_mode: "+string(s.StegMode))
	}
	if s.InfoType != "" {
		fields = append(fields, "info_type: "+s.InfoType)
	}
	if s.ECC {
		fields = append(fields, "ecc: true")
	}
	if s.Deniable {
		fields = append(fields, "partition_seed: "+base64.StdEncoding.EncodeToString(s.PartitionSeed))
		fields = append(fields, "partition_half: "+strconv.Itoa(s.PartitionHalf))
	}
	sort.Strings(fields[1:]) // keep "cipher" first for readability; order beyond that is cosmetic only
	return []byte(strings.Join(fields, "\n") + "\n")
}

// Decode parses raw back into a Sidecar, validating that every field
// required by spec.md §4.7's table is present and internally consistent.
// Unrecognised fields are ignored, not rejected, so future additions remain
// backward compatible.
func Decode(raw []byte) (Sidecar, error) {
	values := map[string]string{}
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			return Sidecar{}, malformed("unparsable line: " + line)
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}

	s := Sidecar{}
	cipher, ok := values["cipher"]
	if !ok {
		return Sidecar{}, malformed("missing required field: cipher")
	}
	s.Cipher = models.CipherID(cipher)
	if _, ok := models.LookupCipher(s.Cipher); !ok {
		return Sidecar{}, malformed("unrecognized cipher: " + cipher)
	}

	nonceB64, ok := values["nonce"]
	if !ok {
		return Sidecar{}, malformed("missing required field: nonce")
	}
	nonce, err := base64.StdEncoding.DecodeString(nonceB64)
	if err != nil {
		return Sidecar{}, malformed("invalid base64 in nonce: " + err.Error())
	}
	s.Nonce = nonce

	saltB64, ok := values["salt"]
	if !ok {
		return Sidecar{}, malformed("missing required field: salt")
	}
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return Sidecar{}, malformed("invalid base64 in salt: " + err.Error())
	}
	s.Salt = salt

	if mode, ok := values["steg_mode"]; ok {
		s.StegMode = models.StegMode(mode)
	}
	s.InfoType = values["info_type"]
	s.ECC = values["ecc"] == "true"

	deniableStr, ok := values["deniable"]
	if !ok {
		return Sidecar{}, malformed("missing required field: deniable")
	}
	deniable, err := strconv.ParseBool(deniableStr)
	if err != nil {
		return Sidecar{}, malformed("invalid boolean in deniable: " + err.Error())
	}
	s.Deniable = deniable

	if s.Deniable {
		seedB64, ok := values["partition_seed"]
		if !ok {
			return Sidecar{}, malformed("deniable sidecar missing partition_seed")
		}
		seed, err := base64.StdEncoding.DecodeString(seedB64)
		if err != nil {
			return Sidecar{}, malformed("invalid base64 in partition_seed: " + err.Error())
		}
		s.PartitionSeed = seed

		halfStr, ok := values["partition_half"]
		if !ok {
			return Sidecar{}, malformed("deniable sidecar missing partition_half")
		}
		half, err := strconv.Atoi(halfStr)
		if err != nil || (half != 0 && half != 1) {
			return Sidecar{}, malformed("partition_half must be 0 or 1")
		}
		s.PartitionHalf = half
	}

	return s, nil
}

func malformed(detail string) error {
	return models.NewError(models.KindMalformedSidecar, detail, nil)
}
