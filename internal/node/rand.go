package node

import "math/rand"

// uniformRandomFn is swappable so broadcaster tests can make the "random"
// payload deterministic, the same isolation gossip/pkg/rand.go uses around
// math/rand.
var uniformRandomFn = rand.Intn

func uniformRandom(n int) int {
	return uniformRandomFn(n)
}
