package node

// JoinType is the closed set of supported SQL join types. The literal SQL
// keyword for each is supplied by the active dialect, not hardcoded here.
type JoinType int

const (
	Inner JoinType = iota
	Left
	Right
	Full
)

// String returns the display name for this join type.
func (t JoinType) String() string {
	switch t {
	case Inner:
		return "INNER"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	case Full:
		return "FULL"
	default:
		return "UNKNOWN"
	}
}

// joinTypeOrDefault returns the first given join type. Unspecified joins are
// LEFT, not INNER: outer rows of the left relation are preserved unless the
// caller opts into a stricter join.
func joinTypeOrDefault(jt []JoinType) JoinType {
	if len(jt) > 0 {
		return jt[0]
	}
	return Left
}
