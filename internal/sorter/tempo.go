package sorter

import (
	"fmt"
	"math"
)

// ClipTempo normalizes a reported BPM into [60, 140] by doubling values below
// 60 and halving values above 140. Compensates for half-time/double-time
// misdetection by the remote tempo estimator. Display guidance only, never
// written back.
func ClipTempo(bpm float64) float64 {
	if bpm <= 0 {
		return bpm
	}
	for bpm < 60 {
		bpm *= 2
	}
	for bpm > 140 {
		bpm /= 2
	}
	return bpm
}

// NearestBucket rounds a BPM to the nearest multiple of 10, naming the tempo
// list the track most likely belongs in.
func NearestBucket(bpm float64) int {
	return int(math.Round(bpm/10)) * 10
}

// PopBucket derives the decade-bucketed pop genre label from a release year.
func PopBucket(year int) string {
	if year >= 1990 {
		return fmt.Sprintf("%ds pop", year/10*10)
	}
	return "pre-1990 pop"
}
