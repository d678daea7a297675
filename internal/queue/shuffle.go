package queue

import "math/rand/v2"

// Shuffled returns a uniformly random permutation of ids (Fisher-Yates).
// The input slice is not modified.
func Shuffled(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	for i := len(out) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
