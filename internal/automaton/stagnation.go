package automaton

// IsStagnant reports whether current exactly matches a snapshot in history.
//
// This catches static patterns and cycles whose period is at most the
// history capacity K. Longer cycles go undetected.
func IsStagnant(current *Grid, history *History) bool {
	return history.Contains(current)
}
