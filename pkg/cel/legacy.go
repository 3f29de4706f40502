package cel

// legacyOperationType maps a pre-rename CEL entry's raw "type" field ("create"
// / "update", from logs written before ResourceAdded/ResourceUpdated were
// adopted) onto the current OperationType set. Replay applies it, through
// DisplayOperationType, to every entry's type; the stored type string is
// never rewritten, so existing hashes and proofs over legacy-named entries
// keep verifying unchanged.
var legacyOperationType = map[OperationType]OperationType{
	"create": OpResourceAdded,
	"update": OpResourceUpdated,
}

// DisplayOperationType returns the current-naming equivalent of t, or t
// itself if it is already current.
func DisplayOperationType(t OperationType) OperationType {
	if modern, ok := legacyOperationType[t]; ok {
		return modern
	}
	return t
}
