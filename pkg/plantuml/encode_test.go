package plantuml

import (
	"strings"
	"testing"

	"github.com/protouml/protouml/pkg/errors"
)

func TestEncodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"minimal diagram", "@startuml\n@enduml\n"},
		{"unicode", "@startuml\nclass Ünïcödé {\n  näme : string\n}\n@enduml\n"},
		{
			"typical diagram",
			"@startuml\nhide empty members\nclass User {\n  name : string\n  age : int32\n}\nUser *-- \"0..*\" Address\n@enduml\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Encode(tt.text)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if res.Encoding != EncodingDeflate {
				t.Fatalf("Encoding = %v, want %v", res.Encoding, EncodingDeflate)
			}

			got, err := Decode(res)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got != tt.text {
				t.Errorf("round trip = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestEncodeRoundTripLargeDiagram(t *testing.T) {
	var b strings.Builder
	b.WriteString("@startuml\n")
	for i := 0; i < 12000; i++ {
		b.WriteString("class Entity")
		b.WriteString(strings.Repeat("X", i%7))
		b.WriteString(" {\n  field : string\n}\n")
	}
	b.WriteString("@enduml\n")
	text := b.String()

	res, err := Encode(text)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := Decode(res)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != text {
		t.Error("large diagram round trip mismatch")
	}
}

func TestEncodeTokenAlphabet(t *testing.T) {
	res, err := Encode("@startuml\nclass User\n@enduml\n")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	for i := 0; i < len(res.Token); i++ {
		if strings.IndexByte(alphabet, res.Token[i]) < 0 {
			t.Fatalf("token contains %q outside the alphabet", res.Token[i])
		}
	}
	if len(res.Token)%4 != 0 {
		t.Errorf("token length %d is not a multiple of 4", len(res.Token))
	}
}

func TestEncode64BitPacking(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"zero group", []byte{0, 0, 0}, "0000"},
		{"all ones", []byte{0xFF, 0xFF, 0xFF}, "____"},
		{"single byte pads", []byte{0x04}, "1000"},
		{"two bytes pad", []byte{0x00, 0x10}, "0100"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encode64(tt.in); got != tt.want {
				t.Errorf("encode64(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncodeHexRoundTrip(t *testing.T) {
	text := "@startuml\nclass User\n@enduml\n"
	res := EncodeHex(text)

	if res.Encoding != EncodingHex {
		t.Fatalf("Encoding = %v, want %v", res.Encoding, EncodingHex)
	}

	got, err := Decode(res)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != text {
		t.Errorf("hex round trip = %q, want %q", got, text)
	}
}

func TestDecodeRejectsBadTokens(t *testing.T) {
	tests := []struct {
		name string
		res  Result
	}{
		{"bad length", Result{Token: "abc", Encoding: EncodingDeflate}},
		{"invalid character", Result{Token: "ab!d", Encoding: EncodingDeflate}},
		{"bad hex", Result{Token: "zz", Encoding: EncodingHex}},
		{"unknown encoding", Result{Token: "00", Encoding: Encoding("gzip")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.res)
			if err == nil {
				t.Fatal("Decode() error = nil, want error")
			}
			if !errors.Is(err, errors.ErrCodeDecode) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeDecode)
			}
		})
	}
}
