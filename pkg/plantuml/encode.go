// Package plantuml encodes diagram text into the URL-safe token format
// understood by PlantUML rendering servers, and fetches rendered images.
//
// The standard encoding is raw DEFLATE over the UTF-8 bytes, re-encoded in
// PlantUML's base-64 variant (digits, uppercase, lowercase, '-', '_'). A
// plain hexadecimal fallback exists for callers that cannot compress; its
// tokens need the "~h" marker in the URL so the server picks the right
// decoder. [Result.Encoding] tags which form a token carries.
package plantuml

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/protouml/protouml/pkg/errors"
)

// Encoding identifies the token format of a Result.
type Encoding string

const (
	// EncodingDeflate is the standard compressed token format.
	EncodingDeflate Encoding = "deflate"

	// EncodingHex is the uncompressed fallback; URLs need the HexPrefix.
	EncodingHex Encoding = "hex"
)

// HexPrefix is prepended to hex tokens in render URLs so the server
// distinguishes them from deflate tokens.
const HexPrefix = "~h"

// alphabet is PlantUML's base-64 variant: values 0-9 map to digits,
// 10-35 to uppercase, 36-61 to lowercase, 62 to '-', 63 to '_'.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

// Result is an encoded diagram token tagged with its encoding.
type Result struct {
	Token    string
	Encoding Encoding
}

// Encode compresses the diagram text with raw DEFLATE and encodes the
// compressed bytes into the PlantUML alphabet. Compression failures are
// fatal and wrapped; a truncated token is never returned.
func Encode(text string) (Result, error) {
	var buf bytes.Buffer
	zw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeEncode, err, "init deflate")
	}
	if _, err := zw.Write([]byte(text)); err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeEncode, err, "compress diagram text")
	}
	if err := zw.Close(); err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeEncode, err, "flush deflate stream")
	}
	return Result{Token: encode64(buf.Bytes()), Encoding: EncodingDeflate}, nil
}

// EncodeHex is the fallback for callers without compression: a plain
// hexadecimal rendition of the UTF-8 bytes. The URL builder adds the
// distinguishing HexPrefix.
func EncodeHex(text string) Result {
	return Result{Token: hex.EncodeToString([]byte(text)), Encoding: EncodingHex}
}

// Decode inverts Encode/EncodeHex, recovering the original diagram text.
// Used for round-trip verification and debugging.
func Decode(res Result) (string, error) {
	switch res.Encoding {
	case EncodingHex:
		data, err := hex.DecodeString(res.Token)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeDecode, err, "decode hex token")
		}
		return string(data), nil
	case EncodingDeflate:
		raw, err := decode64(res.Token)
		if err != nil {
			return "", err
		}
		zr := flate.NewReader(bytes.NewReader(raw))
		defer zr.Close()
		text, err := io.ReadAll(zr)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeDecode, err, "decompress token")
		}
		return string(text), nil
	default:
		return "", errors.New(errors.ErrCodeDecode, "unknown encoding %q", res.Encoding)
	}
}

// encode64 packs 3 input bytes into 4 alphabet characters, zero-padding
// the final group.
func encode64(data []byte) string {
	var b bytes.Buffer
	b.Grow((len(data) + 2) / 3 * 4)
	for i := 0; i < len(data); i += 3 {
		var b1, b2, b3 byte
		b1 = data[i]
		if i+1 < len(data) {
			b2 = data[i+1]
		}
		if i+2 < len(data) {
			b3 = data[i+2]
		}
		b.WriteByte(alphabet[b1>>2])
		b.WriteByte(alphabet[(b1&0x03)<<4|b2>>4])
		b.WriteByte(alphabet[(b2&0x0F)<<2|b3>>6])
		b.WriteByte(alphabet[b3&0x3F])
	}
	return b.String()
}

// decode64 inverts encode64. Trailing zero bytes introduced by padding are
// harmless to DEFLATE, which stops at the end of the stream.
func decode64(token string) ([]byte, error) {
	if len(token)%4 != 0 {
		return nil, errors.New(errors.ErrCodeDecode, "token length %d is not a multiple of 4", len(token))
	}
	values := make([]byte, len(token))
	for i := 0; i < len(token); i++ {
		v := decodeChar(token[i])
		if v < 0 {
			return nil, errors.New(errors.ErrCodeDecode, "invalid token character %q", token[i])
		}
		values[i] = byte(v)
	}

	out := make([]byte, 0, len(token)/4*3)
	for i := 0; i < len(values); i += 4 {
		c1, c2, c3, c4 := values[i], values[i+1], values[i+2], values[i+3]
		out = append(out,
			c1<<2|c2>>4,
			c2<<4|c3>>2,
			c3<<6|c4,
		)
	}
	return out, nil
}

func decodeChar(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 36
	case c == '-':
		return 62
	case c == '_':
		return 63
	default:
		return -1
	}
}
