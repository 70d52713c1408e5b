package visual

import "image"

// Ink threshold for binarizing grayscale pixels; rendered PDF pages have a
// light background with dark rules and text.
const inkThreshold = 128

// Minimum fraction of the region span a run must cover to count as a rule
const minRunFraction = 0.6

// lineRuns counts long horizontal and vertical ink runs within a region.
// A row (column) counts when it contains a contiguous dark run covering at
// least minRunFraction of the region width (height); adjacent counted rows
// collapse into a single rule so thick borders are not double counted.
func lineRuns(gray *image.Gray, region image.Rectangle) (horizontal, vertical int) {
	region = region.Intersect(gray.Bounds())
	if region.Empty() {
		return 0, 0
	}

	minHRun := int(minRunFraction * float64(region.Dx()))
	minVRun := int(minRunFraction * float64(region.Dy()))

	prevRuled := false
	for y := region.Min.Y; y < region.Max.Y; y++ {
		ruled := hasRun(gray, region.Min.X, region.Max.X, y, true, minHRun)
		if ruled && !prevRuled {
			horizontal++
		}
		prevRuled = ruled
	}

	prevRuled = false
	for x := region.Min.X; x < region.Max.X; x++ {
		ruled := hasRun(gray, region.Min.Y, region.Max.Y, x, false, minVRun)
		if ruled && !prevRuled {
			vertical++
		}
		prevRuled = ruled
	}

	return horizontal, vertical
}

// hasRun scans one row (alongX) or column for a contiguous ink run of at
// least minRun pixels.
func hasRun(gray *image.Gray, from, to, fixed int, alongX bool, minRun int) bool {
	if minRun < 1 {
		minRun = 1
	}

	run := 0
	for i := from; i < to; i++ {
		var v uint8
		if alongX {
			v = gray.GrayAt(i, fixed).Y
		} else {
			v = gray.GrayAt(fixed, i).Y
		}

		if v < inkThreshold {
			run++
			if run >= minRun {
				return true
			}
		} else {
			run = 0
		}
	}

	return false
}
