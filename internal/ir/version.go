package ir

// Version constants for the rig schema and toolkit.
const (
	// SchemaVersion is the version of persisted rig and scene data.
	SchemaVersion = "1"

	// ToolVersion is the toolkit version recorded alongside persisted scenes.
	ToolVersion = "0.1.0"
)
