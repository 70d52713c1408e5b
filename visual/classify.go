package visual

import (
	"image"
	"math"

	"github.com/tsawler/slidemap/model"
)

// regionFeatures summarizes the image evidence within a candidate region
type regionFeatures struct {
	// EdgeDensity is the fraction of edge pixels in the region
	EdgeDensity float64

	// HLines and VLines are the counts of long horizontal/vertical ink runs
	HLines int
	VLines int

	// AspectRatio is region width / height
	AspectRatio float64
}

// analyzeRegion computes classification features for one candidate region
func analyzeRegion(gray, edges *image.Gray, region image.Rectangle) regionFeatures {
	region = region.Intersect(gray.Bounds())
	area := region.Dx() * region.Dy()
	if area <= 0 {
		return regionFeatures{}
	}

	edgeCount := 0
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			if edges.GrayAt(x, y).Y > 128 {
				edgeCount++
			}
		}
	}

	h, v := lineRuns(gray, region)

	return regionFeatures{
		EdgeDensity: float64(edgeCount) / float64(area),
		HLines:      h,
		VLines:      v,
		AspectRatio: float64(region.Dx()) / float64(region.Dy()),
	}
}

// classify maps region features to a visual type and a confidence score.
//
// Heuristic order matters: a ruled grid is the strongest evidence and wins
// over chart-like edge density, since tables also produce many edges.
func classify(feats regionFeatures, config Config) (model.VisualType, float64) {
	// Grid of horizontal and vertical rules: table
	if feats.HLines >= config.MinGridLines && feats.VLines >= config.MinGridLines {
		confidence := 0.6 + 0.05*float64(feats.HLines+feats.VLines-2*config.MinGridLines)
		return model.VisualTypeTable, clamp01At(confidence, 0.95)
	}

	// Axis-like structure with moderate edge density: chart
	if feats.HLines >= 1 && feats.VLines >= 1 && feats.EdgeDensity >= 0.02 {
		confidence := feats.EdgeDensity*10 + 0.1*float64(feats.HLines+feats.VLines)
		return model.VisualTypeChart, clamp01At(confidence, 1.0)
	}

	// Strongly elongated regions read as flow diagrams or timelines
	if feats.AspectRatio > 2.5 || (feats.AspectRatio > 0 && feats.AspectRatio < 0.4) {
		if feats.EdgeDensity >= 0.02 {
			return model.VisualTypeDiagram, 0.6
		}
	}

	// Dense unruled imagery: photo or rendered figure
	if feats.EdgeDensity >= 0.05 {
		return model.VisualTypeFigure, 0.7
	}

	return model.VisualTypeUnknown, 0.4
}

func clamp01At(v, max float64) float64 {
	return math.Min(math.Max(v, 0), max)
}
