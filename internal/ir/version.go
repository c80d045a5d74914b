package ir

// Version constants for the fragment format and the tool.
const (
	// FragmentVersion is bumped whenever compiled fragment text changes shape.
	FragmentVersion = "1"

	// ToolVersion is the typebridge release version.
	ToolVersion = "0.1.0"
)
