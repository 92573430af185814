package driver

import (
	"crypto/sha256"
	"path/filepath"
	"testing"

	"jvlint/internal/diag"
	"jvlint/internal/source"
)

func testPayload() *ResultPayload {
	return &ResultPayload{
		Schema:    diskCacheSchemaVersion,
		RuleSet:   "lambda-method-ref",
		ClassName: "Foo",
		Findings: []Finding{{
			Code:     uint16(diag.LintLambdaMethodRef),
			Severity: uint8(diag.SevWarning),
			Message:  "lambda is equivalent to a method reference",
			Class:    "Foo",
			Method:   "get()V",
			PC:       4,
			Line:     17,
		}},
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	key := sha256.Sum256([]byte("class bytes"))

	var missing ResultPayload
	if ok, err := cache.Get(key, &missing); err != nil || ok {
		t.Fatalf("Get on empty cache = %v, %v", ok, err)
	}

	want := testPayload()
	if err := cache.Put(key, want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got ResultPayload
	ok, err := cache.Get(key, &got)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if got.ClassName != want.ClassName || got.RuleSet != want.RuleSet {
		t.Errorf("payload = %+v", got)
	}
	if len(got.Findings) != 1 || got.Findings[0] != want.Findings[0] {
		t.Errorf("findings = %+v", got.Findings)
	}
}

func TestDiskCacheSchemaMismatch(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	key := sha256.Sum256([]byte("old"))

	stale := testPayload()
	stale.Schema = diskCacheSchemaVersion + 1
	if err := cache.Put(key, stale); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got ResultPayload
	if ok, err := cache.Get(key, &got); err != nil || ok {
		t.Fatalf("stale schema Get = %v, %v; want miss", ok, err)
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	key := sha256.Sum256([]byte("x"))
	if err := cache.Put(key, testPayload()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	var got ResultPayload
	if ok, err := cache.Get(key, &got); err != nil || ok {
		t.Fatalf("Get after DropAll = %v, %v", ok, err)
	}
}

func TestSnapshotRestoreFindings(t *testing.T) {
	bag := diag.NewBag(4)
	bag.Add(diag.NewWarning(diag.LintLambdaMethodRef,
		source.Location{File: 3, Class: "Foo", Method: "get()V", PC: 2, Line: 9}, "msg"))

	payload := snapshotFindings("Foo", "rules", bag)
	if payload.ClassName != "Foo" || len(payload.Findings) != 1 {
		t.Fatalf("payload = %+v", payload)
	}

	restored := diag.NewBag(4)
	restoreFindings(source.FileID(7), payload, restored)
	if restored.Len() != 1 {
		t.Fatalf("restored %d findings", restored.Len())
	}
	d := restored.Items()[0]
	if d.Primary.File != 7 {
		t.Errorf("restored FileID = %d, want the new run's 7", d.Primary.File)
	}
	if d.Primary.Class != "Foo" || d.Primary.PC != 2 || d.Primary.Line != 9 {
		t.Errorf("restored location = %+v", d.Primary)
	}
}
