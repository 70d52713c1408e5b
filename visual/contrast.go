package visual

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/tsawler/slidemap/model"
)

// ContrastDetector finds candidate regions by Sobel edge detection followed
// by morphological dilation and connected-component analysis, then classifies
// each region with grid and density heuristics.
type ContrastDetector struct {
	config Config
}

// NewContrastDetector creates a contrast-based detector with default settings
func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{config: DefaultConfig()}
}

// Name returns the detector name
func (d *ContrastDetector) Name() string {
	return "contrast"
}

// Configure sets detector parameters
func (d *ContrastDetector) Configure(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	d.config = config
	return nil
}

// Detect finds visual elements on a rendered page image
func (d *ContrastDetector) Detect(img image.Image, pageNumber int) ([]model.VisualElement, error) {
	if img == nil {
		return nil, ErrUnreadableImage
	}
	origBounds := img.Bounds()
	if origBounds.Dx() <= 0 || origBounds.Dy() <= 0 {
		return nil, ErrUnreadableImage
	}

	// Downscale large pages before the per-pixel passes. Detected boxes are
	// scaled back to original page coordinates at the end.
	analysis, scale := d.analysisImage(img)

	gray := toGrayscale(analysis)
	edges := gradientMask(gray, d.config.EdgeThreshold)
	dilated := dilate(edges, d.config.DilationKernel, d.config.DilationPasses)

	minArea := float64(d.config.MinRegionArea) / (scale * scale)
	var regions []image.Rectangle
	for _, rect := range connectedRegions(dilated) {
		if float64(rect.Dx()*rect.Dy()) >= minArea {
			regions = append(regions, rect)
		}
	}
	regions = mergeOverlapping(regions)

	pageBounds := model.NewBBox(0, 0, float64(origBounds.Dx()), float64(origBounds.Dy()))

	var elements []model.VisualElement
	for _, rect := range regions {
		feats := analyzeRegion(gray, edges, rect)
		vtype, confidence := classify(feats, d.config)
		if confidence < d.config.MinConfidence {
			continue
		}

		elements = append(elements, model.VisualElement{
			ID:         uuid.NewString(),
			PageNumber: pageNumber,
			BBox: model.NewBBox(
				float64(rect.Min.X)*scale,
				float64(rect.Min.Y)*scale,
				float64(rect.Dx())*scale,
				float64(rect.Dy())*scale,
			),
			PageBounds: pageBounds,
			Type:       vtype,
			Confidence: confidence,
		})
	}

	// Reading order determines the ordinal that caption references match
	sort.SliceStable(elements, func(i, j int) bool {
		if elements[i].BBox.Y != elements[j].BBox.Y {
			return elements[i].BBox.Y < elements[j].BBox.Y
		}
		return elements[i].BBox.X < elements[j].BBox.X
	})
	for i := range elements {
		elements[i].Ordinal = i + 1
	}

	return elements, nil
}

// analysisImage returns the image to analyze and the factor that maps
// analysis coordinates back to original page coordinates.
func (d *ContrastDetector) analysisImage(img image.Image) (image.Image, float64) {
	bounds := img.Bounds()
	width := bounds.Dx()
	if d.config.MaxAnalysisWidth <= 0 || width <= d.config.MaxAnalysisWidth {
		return img, 1.0
	}

	scale := float64(width) / float64(d.config.MaxAnalysisWidth)
	height := int(math.Round(float64(bounds.Dy()) / scale))
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, d.config.MaxAnalysisWidth, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst, scale
}

// toGrayscale converts an image to grayscale with a zero-based origin
func toGrayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)))
		}
	}

	return gray
}

// gradientMask applies the Sobel operator and thresholds the gradient
// magnitude into a binary edge mask.
func gradientMask(gray *image.Gray, threshold float64) *image.Gray {
	bounds := gray.Bounds()
	edges := image.NewGray(bounds)

	kx := [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	ky := [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}

	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			var gx, gy float64
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					pixel := float64(gray.GrayAt(x+dx, y+dy).Y)
					gx += pixel * kx[dy+1][dx+1]
					gy += pixel * ky[dy+1][dx+1]
				}
			}

			if math.Sqrt(gx*gx+gy*gy) > threshold {
				edges.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	return edges
}

// dilate grows white regions so nearby edges merge into one component
func dilate(img *image.Gray, kernelSize, passes int) *image.Gray {
	bounds := img.Bounds()
	half := kernelSize / 2
	src := img

	for pass := 0; pass < passes; pass++ {
		dst := image.NewGray(bounds)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				if src.GrayAt(x, y).Y == 0 {
					continue
				}
				for dy := -half; dy <= half; dy++ {
					for dx := -half; dx <= half; dx++ {
						px, py := x+dx, y+dy
						if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
							dst.SetGray(px, py, color.Gray{Y: 255})
						}
					}
				}
			}
		}
		src = dst
	}

	return src
}

// connectedRegions finds bounding rectangles of connected white regions
func connectedRegions(img *image.Gray) []image.Rectangle {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	visited := make([]bool, width*height)

	var regions []image.Rectangle
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if visited[y*width+x] || img.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y <= 128 {
				continue
			}
			regions = append(regions, traceRegion(img, visited, x, y))
		}
	}

	return regions
}

// traceRegion flood-fills one component and returns its bounding rectangle
func traceRegion(img *image.Gray, visited []bool, startX, startY int) image.Rectangle {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	minX, minY := startX, startY
	maxX, maxY := startX, startY

	queue := []image.Point{{X: startX, Y: startY}}
	visited[startY*width+startX] = true

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}

		for _, n := range [4]image.Point{{p.X + 1, p.Y}, {p.X - 1, p.Y}, {p.X, p.Y + 1}, {p.X, p.Y - 1}} {
			if n.X < 0 || n.X >= width || n.Y < 0 || n.Y >= height {
				continue
			}
			if visited[n.Y*width+n.X] || img.GrayAt(bounds.Min.X+n.X, bounds.Min.Y+n.Y).Y <= 128 {
				continue
			}
			visited[n.Y*width+n.X] = true
			queue = append(queue, n)
		}
	}

	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// mergeOverlapping collapses heavily overlapping candidate rectangles into
// their union. Dilation can split one visual into components that still
// overlap once boxed.
func mergeOverlapping(rects []image.Rectangle) []image.Rectangle {
	const overlapThreshold = 0.5

	merged := true
	for merged {
		merged = false
		for i := 0; i < len(rects) && !merged; i++ {
			for j := i + 1; j < len(rects); j++ {
				a := toBBox(rects[i])
				b := toBBox(rects[j])
				if a.OverlapRatio(b) < overlapThreshold {
					continue
				}
				rects[i] = rects[i].Union(rects[j])
				rects = append(rects[:j], rects[j+1:]...)
				merged = true
				break
			}
		}
	}

	return rects
}

func toBBox(r image.Rectangle) model.BBox {
	return model.NewBBox(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
}
