package diag

import (
	"math"
	"testing"

	"jvlint/internal/source"
)

func loc(file source.FileID, class, method string, pc uint16) source.Location {
	return source.Location{File: file, Class: class, Method: method, PC: pc}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(NewWarning(LintLambdaMethodRef, loc(0, "A", "a()V", 0), "one")) {
		t.Fatal("first add rejected")
	}
	if !bag.Add(NewWarning(LintLambdaMethodRef, loc(0, "A", "a()V", 1), "two")) {
		t.Fatal("second add rejected")
	}
	if bag.Add(NewWarning(LintLambdaMethodRef, loc(0, "A", "a()V", 2), "three")) {
		t.Fatal("add past the limit accepted")
	}
	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}
}

func TestBagLimitAboveUint16(t *testing.T) {
	want := math.MaxUint16 + 2
	bag := NewBag(want)
	if bag.Cap() != want {
		t.Fatalf("Cap = %d, want %d", bag.Cap(), want)
	}
	d := New(SevInfo, LintInfo, loc(0, "A", "a()V", 0), "x")
	for i := 0; i < want; i++ {
		if !bag.Add(d) {
			t.Fatalf("add %d rejected below the limit %d", i, want)
		}
	}
	if bag.Add(d) {
		t.Fatal("add past the limit accepted")
	}
	if bag.Len() != want {
		t.Fatalf("Len = %d, want %d", bag.Len(), want)
	}
}

func TestBagSeverityQueries(t *testing.T) {
	bag := NewBag(4)
	if bag.HasErrors() || bag.HasWarnings() {
		t.Fatal("empty bag reports findings")
	}
	bag.Add(New(SevInfo, LintInfo, loc(0, "A", "a()V", 0), "note"))
	if bag.HasWarnings() {
		t.Fatal("info-only bag reports warnings")
	}
	bag.Add(NewWarning(LintLambdaMethodRef, loc(0, "A", "a()V", 1), "warn"))
	if !bag.HasWarnings() || bag.HasErrors() {
		t.Fatal("warning-level queries wrong")
	}
	bag.Add(NewError(ClsMalformed, loc(0, "A", "", 0), "broken"))
	if !bag.HasErrors() {
		t.Fatal("error not detected")
	}
}

func TestBagSort(t *testing.T) {
	bag := NewBag(8)
	bag.Add(NewWarning(LintLambdaMethodRef, loc(1, "B", "b()V", 0), "later file"))
	bag.Add(NewWarning(LintLambdaMethodRef, loc(0, "A", "a()V", 8), "later pc"))
	bag.Add(New(SevInfo, LintInfo, loc(0, "A", "a()V", 2), "info at pc2"))
	bag.Add(NewError(ClsMalformed, loc(0, "A", "a()V", 2), "error at pc2"))
	bag.Sort()

	items := bag.Items()
	wantMsgs := []string{"error at pc2", "info at pc2", "later pc", "later file"}
	for i, want := range wantMsgs {
		if items[i].Message != want {
			t.Fatalf("position %d = %q, want %q", i, items[i].Message, want)
		}
	}
}

func TestBagMergeGrowsLimit(t *testing.T) {
	a := NewBag(1)
	a.Add(NewWarning(LintLambdaMethodRef, loc(0, "A", "a()V", 0), "a"))
	b := NewBag(1)
	b.Add(NewWarning(LintLambdaMethodRef, loc(0, "B", "b()V", 0), "b"))

	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("merged Len = %d, want 2", a.Len())
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(4)
	same := loc(0, "A", "a()V", 4)
	bag.Add(NewWarning(LintLambdaMethodRef, same, "x"))
	bag.Add(NewWarning(LintLambdaMethodRef, same, "x"))
	bag.Add(NewWarning(LintLambdaMethodRef, loc(0, "A", "a()V", 5), "x"))
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("after dedup Len = %d, want 2", bag.Len())
	}
}

func TestCodeID(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{IOLoadFileError, "IO1000"},
		{ClsMalformed, "CLS2001"},
		{LintLambdaMethodRef, "LINT3001"},
		{UnknownCode, "E0000"},
	}
	for _, tc := range cases {
		if got := tc.code.ID(); got != tc.want {
			t.Errorf("ID(%d) = %q, want %q", tc.code, got, tc.want)
		}
	}
	if LintLambdaMethodRef.Title() == "" {
		t.Error("title missing for the lambda rule code")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(8)
	rep := NewDedupReporter(&BagReporter{Bag: bag})
	where := loc(0, "A", "a()V", 0)
	rep.Report(LintLambdaMethodRef, SevWarning, where, "msg", nil)
	rep.Report(LintLambdaMethodRef, SevWarning, where, "msg", nil)
	rep.Report(LintLambdaMethodRef, SevWarning, where, "different", nil)
	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}
}
