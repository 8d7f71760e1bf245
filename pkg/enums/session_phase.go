package enums

// SessionPhase is the lifecycle of a shopping session relative to the
// sign-in merge. The guard against re-running the merge is this visible
// state, not an incidental flag.
type SessionPhase string

const (
	SessionPhaseAnonymous SessionPhase = "anonymous"
	SessionPhaseMerging   SessionPhase = "merging"
	SessionPhaseMerged    SessionPhase = "merged"
)

// String implements fmt.Stringer.
func (p SessionPhase) String() string {
	return string(p)
}
