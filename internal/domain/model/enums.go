package model

// PRState represents the lifecycle state of a pull request as reported by
// Bitbucket. OPEN is the only non-terminal state; transitions happen
// server-side and are never computed locally.
type PRState string

const (
	PRStateOpen       PRState = "OPEN"
	PRStateMerged     PRState = "MERGED"
	PRStateDeclined   PRState = "DECLINED"
	PRStateSuperseded PRState = "SUPERSEDED"
)

// ValidPRState reports whether s is one of the four states accepted by the
// pull request list endpoint.
func ValidPRState(s PRState) bool {
	switch s {
	case PRStateOpen, PRStateMerged, PRStateDeclined, PRStateSuperseded:
		return true
	}
	return false
}

// TaskState represents the binary state of a review task.
type TaskState string

const (
	TaskStateUnresolved TaskState = "UNRESOLVED"
	TaskStateResolved   TaskState = "RESOLVED"
)
