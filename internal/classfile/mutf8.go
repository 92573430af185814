package classfile

import (
	"math"
	"unicode/utf16"
	"unicode/utf8"
)

func float32FromBits(v uint32) float32 { return math.Float32frombits(v) }
func float64FromBits(v uint64) float64 { return math.Float64frombits(v) }

// decodeModifiedUTF8 decodes the "modified UTF-8" used by CONSTANT_Utf8
// entries (JVMS §4.4.7): U+0000 is the two-byte form 0xC0 0x80, and
// supplementary characters are stored as CESU-8 surrogate pairs. Plain
// ASCII (the overwhelmingly common case) is passed through untouched.
// Ill-formed input degrades to U+FFFD per byte rather than failing: a bad
// identifier should surface as a strange name, not kill the class.
func decodeModifiedUTF8(raw []byte) string {
	ascii := true
	for _, b := range raw {
		if b >= 0x80 || b == 0 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(raw)
	}

	var units []uint16
	for i := 0; i < len(raw); {
		b := raw[i]
		switch {
		case b&0x80 == 0:
			units = append(units, uint16(b))
			i++
		case b&0xE0 == 0xC0 && i+1 < len(raw) && raw[i+1]&0xC0 == 0x80:
			units = append(units, uint16(b&0x1F)<<6|uint16(raw[i+1]&0x3F))
			i += 2
		case b&0xF0 == 0xE0 && i+2 < len(raw) && raw[i+1]&0xC0 == 0x80 && raw[i+2]&0xC0 == 0x80:
			units = append(units, uint16(b&0x0F)<<12|uint16(raw[i+1]&0x3F)<<6|uint16(raw[i+2]&0x3F))
			i += 3
		default:
			units = append(units, uint16(utf8.RuneError))
			i++
		}
	}
	return string(utf16.Decode(units))
}
