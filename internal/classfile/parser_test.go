package classfile

import (
	"errors"
	"testing"

	"jvlint/internal/testkit"
)

func buildSample() []byte {
	b := testkit.NewClass("com/example/Foo")
	callee := b.MethodRef("com/example/Foo", "getName", "()Ljava/lang/String;")
	b.AddMethodLines(AccPublic, "get", "()Ljava/lang/String;",
		[]byte{0x2a, 0xb6, byte(callee >> 8), byte(callee), 0xb0},
		[]testkit.LineEntry{{StartPC: 0, Line: 10}, {StartPC: 4, Line: 11}})
	b.AddAbstractMethod(AccPublic|AccAbstract, "describe", "()Ljava/lang/String;")
	b.AddMethod(AccPrivate|AccStatic|AccSynthetic, "lambda$get$0", "(Lcom/example/Foo;)Ljava/lang/String;",
		[]byte{0xb1})
	b.SourceFile("Foo.java")
	return b.Build()
}

func TestParseClass(t *testing.T) {
	cls, err := Parse(buildSample())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cls.MajorVersion != MajorJava8 {
		t.Errorf("major = %d, want %d", cls.MajorVersion, MajorJava8)
	}
	name, err := cls.Name()
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if name != "com.example.Foo" {
		t.Errorf("name = %q, want com.example.Foo", name)
	}
	if got := cls.SourceFile(); got != "Foo.java" {
		t.Errorf("source file = %q, want Foo.java", got)
	}
	if len(cls.Methods) != 3 {
		t.Fatalf("got %d methods, want 3", len(cls.Methods))
	}

	get := cls.FindMethod("get", "()Ljava/lang/String;")
	if get == nil {
		t.Fatal("FindMethod did not find get()")
	}
	if get.Code == nil {
		t.Fatal("get() has no decoded Code")
	}
	if len(get.Code.Bytecode) != 5 {
		t.Errorf("bytecode length = %d, want 5", len(get.Code.Bytecode))
	}
	if got := get.Code.LineAt(0); got != 10 {
		t.Errorf("LineAt(0) = %d, want 10", got)
	}
	if got := get.Code.LineAt(3); got != 10 {
		t.Errorf("LineAt(3) = %d, want 10", got)
	}
	if got := get.Code.LineAt(4); got != 11 {
		t.Errorf("LineAt(4) = %d, want 11", got)
	}

	abstract := cls.FindMethod("describe", "()Ljava/lang/String;")
	if abstract == nil || abstract.Code != nil {
		t.Errorf("abstract method should parse without Code")
	}

	forwarder := cls.FindMethod("lambda$get$0", "(Lcom/example/Foo;)Ljava/lang/String;")
	if forwarder == nil {
		t.Fatal("FindMethod did not find the synthetic forwarder")
	}
	if !forwarder.IsSynthetic() {
		t.Error("forwarder should report synthetic")
	}
	if cls.FindMethod("lambda$get$0", "()V") != nil {
		t.Error("FindMethod matched on name despite a different descriptor")
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	_, err := Parse([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x00})
	if !errors.Is(err, ErrNotClassFile) {
		t.Fatalf("err = %v, want ErrNotClassFile", err)
	}
}

func TestParseTruncated(t *testing.T) {
	image := buildSample()
	// Every proper prefix must fail cleanly, never panic.
	for n := 0; n < len(image); n += 7 {
		if _, err := Parse(image[:n]); err == nil {
			t.Fatalf("Parse of %d-byte prefix succeeded", n)
		}
	}
}

func TestParseSkipsUnresolvableAttributeNames(t *testing.T) {
	b := testkit.NewClass("Foo")
	b.AddMethod(AccPublic, "run", "()V", []byte{0xb1})
	image := b.Build()

	cls, err := Parse(image)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := cls.Attribute("NoSuchAttribute"); ok {
		t.Fatal("lookup of an absent attribute succeeded")
	}
}

func TestPoolResolution(t *testing.T) {
	b := testkit.NewClass("Foo")
	mref := b.MethodRef("Foo", "getName", "()Ljava/lang/String;")
	iref := b.InterfaceMethodRef("Readable", "read", "()I")
	b.AddMethod(AccPublic, "run", "()V", []byte{0xb1})
	cls, err := Parse(b.Build())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	ref, err := cls.Pool.MethodRef(mref)
	if err != nil {
		t.Fatalf("MethodRef: %v", err)
	}
	if ref.Class != "Foo" || ref.Name != "getName" || ref.Descriptor != "()Ljava/lang/String;" {
		t.Errorf("resolved ref = %+v", ref)
	}

	// InterfaceMethodref resolves through the same accessor.
	iresolved, err := cls.Pool.MethodRef(iref)
	if err != nil {
		t.Fatalf("MethodRef(interface): %v", err)
	}
	if iresolved.Class != "Readable" || iresolved.Name != "read" {
		t.Errorf("resolved interface ref = %+v", iresolved)
	}

	if _, err := cls.Pool.MethodRef(0); !errors.Is(err, ErrResolve) {
		t.Errorf("index 0 err = %v, want ErrResolve", err)
	}
	if _, err := cls.Pool.MethodRef(9999); !errors.Is(err, ErrResolve) {
		t.Errorf("out-of-range err = %v, want ErrResolve", err)
	}
	if _, err := cls.Pool.Utf8(mref); !errors.Is(err, ErrResolve) {
		t.Errorf("wrong-tag err = %v, want ErrResolve", err)
	}
}
