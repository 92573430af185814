package diagfmt

// PrettyOpts controls the human-readable renderer.
type PrettyOpts struct {
	// Color enables ANSI styling; the CLI gates it on tty detection.
	Color bool
	// FullPath prints absolute input paths instead of normalized ones.
	FullPath bool
	// WithNotes includes secondary notes under each diagnostic.
	WithNotes bool
}

// SarifRunMeta names the tool in SARIF output.
type SarifRunMeta struct {
	ToolName    string
	ToolVersion string
}
