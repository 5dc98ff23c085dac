package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Blueprint errors
	CodeBlueprintEmptyTitle   Code = "BLUEPRINT_EMPTY_TITLE"
	CodeBlueprintNoZones      Code = "BLUEPRINT_NO_ZONES"
	CodeBlueprintNoLabels     Code = "BLUEPRINT_NO_LABELS"
	CodeBlueprintInvalidShape Code = "BLUEPRINT_INVALID_SHAPE"
	CodeBlueprintDecodeFailed Code = "BLUEPRINT_DECODE_FAILED"
	CodeBlueprintEmptyScenes  Code = "BLUEPRINT_EMPTY_SCENES"

	// Mechanic configuration errors
	CodeMechanicUnknownKind     Code = "MECHANIC_UNKNOWN_KIND"
	CodeMechanicMissingConfig   Code = "MECHANIC_MISSING_CONFIG"
	CodeMechanicEmptySequence   Code = "MECHANIC_EMPTY_SEQUENCE"
	CodeMechanicEmptyCategories Code = "MECHANIC_EMPTY_CATEGORIES"
	CodeMechanicEmptyPairs      Code = "MECHANIC_EMPTY_PAIRS"
	CodeMechanicEmptyNodes      Code = "MECHANIC_EMPTY_NODES"
	CodeMechanicEmptyPath       Code = "MECHANIC_EMPTY_PATH"
	CodeMechanicEmptyItems      Code = "MECHANIC_EMPTY_ITEMS"
	CodeMechanicMissingDesc     Code = "MECHANIC_MISSING_DESCRIPTIONS"

	// Session errors
	CodeSessionClosed          Code = "SESSION_CLOSED"
	CodeSessionComplete        Code = "SESSION_COMPLETE"
	CodeSessionNothingToUndo   Code = "SESSION_NOTHING_TO_UNDO"
	CodeSessionNothingToRedo   Code = "SESSION_NOTHING_TO_REDO"
	CodeSessionSnapshotDecode  Code = "SESSION_SNAPSHOT_DECODE"
	CodeSessionSnapshotVersion Code = "SESSION_SNAPSHOT_VERSION"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)
