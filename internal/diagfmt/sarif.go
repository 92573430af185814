package diagfmt

import (
	"encoding/json"
	"io"

	"jvlint/internal/diag"
	"jvlint/internal/source"
)

// Минимальное подмножество SARIF 2.1.0, достаточное для CI-интеграций.

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
	LogicalLocations []sarifLogic  `json:"logicalLocations,omitempty"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine uint16 `json:"startLine"`
}

type sarifLogic struct {
	FullyQualifiedName string `json:"fullyQualifiedName"`
}

// Sarif renders the bag as a SARIF 2.1.0 log.
func Sarif(w io.Writer, bag *diag.Bag, fileSet *source.FileSet, meta SarifRunMeta) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{Name: meta.ToolName, Version: meta.ToolVersion}},
		// SARIF требует непустой results даже при нуле находок.
		Results: make([]sarifResult, 0, bag.Len()),
	}
	for _, d := range bag.Items() {
		loc := sarifLocation{
			PhysicalLocation: sarifPhysical{
				ArtifactLocation: sarifArtifact{URI: pathOf(d.Primary, fileSet)},
			},
		}
		if d.Primary.Line != 0 {
			loc.PhysicalLocation.Region = &sarifRegion{StartLine: d.Primary.Line}
		}
		if fqn := memberLabel(d.Primary); fqn != "" {
			loc.LogicalLocations = []sarifLogic{{FullyQualifiedName: fqn}}
		}
		run.Results = append(run.Results, sarifResult{
			RuleID:    d.Code.ID(),
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{loc},
		})
	}

	log := sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

func pathOf(loc source.Location, fileSet *source.FileSet) string {
	if fileSet == nil {
		return ""
	}
	return fileSet.Get(loc.File).Path
}
