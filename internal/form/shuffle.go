package form

// shuffle permutes ids in place (Fisher-Yates). intN(n) returns [0, n).
func shuffle(ids []string, intN func(n int) int) {
	for i := len(ids) - 1; i > 0; i-- {
		j := intN(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}
