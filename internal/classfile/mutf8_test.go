package classfile

import "testing"

func TestDecodeModifiedUTF8(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
		want string
	}{
		{"ascii", []byte("java/lang/String"), "java/lang/String"},
		{"embedded nul", []byte{'a', 0xC0, 0x80, 'b'}, "a\x00b"},
		{"two byte", []byte{0xC3, 0xA9}, "é"},
		{"three byte", []byte{0xE4, 0xB8, 0xAD}, "中"},
		{"surrogate pair", []byte{0xED, 0xA0, 0xB4, 0xED, 0xB4, 0x9E}, "\U0001D11E"},
		{"stray continuation", []byte{'a', 0xFF, 'b'}, "a�b"},
		{"truncated sequence", []byte{'a', 0xC3}, "a�"},
		{"empty", nil, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := decodeModifiedUTF8(tc.raw); got != tc.want {
				t.Fatalf("decodeModifiedUTF8(%v) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}
