package callout

import "math/rand/v2"

// Permutation returns a uniformly random permutation of [0, n). Fisher-Yates,
// so every one of the n! orderings is equally likely. Used by the matching
// encoder to pick a display order for each column independently of the
// underlying pair associations.
func Permutation(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return p
}
