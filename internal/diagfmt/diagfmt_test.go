package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"jvlint/internal/diag"
	"jvlint/internal/source"
)

func sampleBag() (*diag.Bag, *source.FileSet) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("com/example/Foo.class", []byte{0xCA})

	bag := diag.NewBag(4)
	bag.Add(diag.NewWarning(diag.LintLambdaMethodRef,
		source.Location{File: id, Class: "com.example.Foo", Method: "get()V", PC: 4, Line: 17},
		"lambda is equivalent to a method reference").
		WithNote(source.Location{File: id, Class: "com.example.Foo", Method: "lambda$get$0(LFoo;)Ljava/lang/String;"},
			"forwards to getName"))
	bag.Add(diag.NewError(diag.ClsMalformed,
		source.Location{File: id},
		"cannot decode class file"))
	return bag, fs
}

func TestPretty(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{WithNotes: true})
	out := buf.String()

	for _, want := range []string{
		"com/example/Foo.class",
		"com.example.Foo.get()V line 17",
		"LINT3001",
		"CLS2001",
		"note: forwards to getName",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("color escapes present with Color disabled")
	}
}

func TestPrettyWithoutLineFallsBackToPC(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("Foo.class", nil)
	bag := diag.NewBag(1)
	bag.Add(diag.NewWarning(diag.LintLambdaMethodRef,
		source.Location{File: id, Class: "Foo", Method: "get()V", PC: 9},
		"msg"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if !strings.Contains(buf.String(), "pc 9") {
		t.Errorf("output missing pc fallback:\n%s", buf.String())
	}
}

func TestJSON(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count = %d, diagnostics = %d", out.Count, len(out.Diagnostics))
	}
	first := out.Diagnostics[0]
	if first.Code != "LINT3001" || first.Severity != "WARNING" {
		t.Errorf("first = %+v", first)
	}
	if first.Location.Class != "com.example.Foo" || first.Location.Line != 17 {
		t.Errorf("location = %+v", first.Location)
	}
	if len(first.Notes) != 1 {
		t.Errorf("notes = %+v", first.Notes)
	}
}

func TestSarif(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "jvlint", ToolVersion: "0.1.0"}
	if err := Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatalf("Sarif: %v", err)
	}

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name string `json:"name"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region *struct {
							StartLine int `json:"startLine"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log = %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "jvlint" {
		t.Errorf("driver = %+v", run.Tool.Driver)
	}
	if len(run.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(run.Results))
	}
	if run.Results[0].RuleID != "LINT3001" || run.Results[0].Level != "warning" {
		t.Errorf("result 0 = %+v", run.Results[0])
	}
	if run.Results[0].Locations[0].PhysicalLocation.Region == nil {
		t.Error("region missing despite a known line")
	}
	if run.Results[1].Locations[0].PhysicalLocation.Region != nil {
		t.Error("region present for a lineless diagnostic")
	}
}

func TestSarifEmptyBagStillEmitsResultsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := Sarif(&buf, diag.NewBag(0), source.NewFileSet(), SarifRunMeta{ToolName: "jvlint"}); err != nil {
		t.Fatalf("Sarif: %v", err)
	}
	if !strings.Contains(buf.String(), `"results": []`) {
		t.Errorf("empty results array missing:\n%s", buf.String())
	}
}
