package script

import "strings"

// EstimateDuration approximates playback length in whole seconds from word count,
// assuming 2.5 spoken words per second: floor(words / 2.5).
// It does not inspect the produced audio.
func EstimateDuration(script string) int {
	words := len(strings.Fields(script))
	return words * 2 / 5
}
