package classfile

import "testing"

func TestHasNoArgs(t *testing.T) {
	cases := []struct {
		descriptor string
		want       bool
	}{
		{"()V", true},
		{"()Ljava/lang/String;", true},
		{"(I)V", false},
		{"(Ljava/lang/String;)I", false},
		{"", false},
		{"V", false},
	}
	for _, tc := range cases {
		if got := HasNoArgs(tc.descriptor); got != tc.want {
			t.Errorf("HasNoArgs(%q) = %v, want %v", tc.descriptor, got, tc.want)
		}
	}
}

func TestReturnsVoid(t *testing.T) {
	cases := []struct {
		descriptor string
		want       bool
	}{
		{"()V", true},
		{"(IJ)V", true},
		{"()I", false},
		{"()[V", false},
		{"()Ljava/lang/Void;", false},
		{"no parens", false},
	}
	for _, tc := range cases {
		if got := ReturnsVoid(tc.descriptor); got != tc.want {
			t.Errorf("ReturnsVoid(%q) = %v, want %v", tc.descriptor, got, tc.want)
		}
	}
}

func TestParamCount(t *testing.T) {
	cases := []struct {
		descriptor string
		want       int
	}{
		{"()V", 0},
		{"(I)V", 1},
		{"(IJ)V", 2},
		{"(Ljava/lang/String;I)V", 2},
		{"([[I[Ljava/lang/String;)V", 2},
		{"(D)Ljava/lang/Object;", 1},
		{"", -1},
		{"(", -1},
		{"(Lunterminated)V", -1},
		{"(I", -1},
	}
	for _, tc := range cases {
		if got := ParamCount(tc.descriptor); got != tc.want {
			t.Errorf("ParamCount(%q) = %d, want %d", tc.descriptor, got, tc.want)
		}
	}
}
