package ocr

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/tsawler/slidemap/model"
)

// cropRegion copies the part of img covered by region into a fresh image.
// The region is clipped to the image bounds; a region entirely outside the
// image is an error.
func cropRegion(img image.Image, region model.BBox) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}

	rect := image.Rect(
		int(region.X),
		int(region.Y),
		int(region.X+region.Width),
		int(region.Y+region.Height),
	).Intersect(img.Bounds())

	if rect.Empty() {
		return nil, fmt.Errorf("region %v lies outside image bounds %v", region, img.Bounds())
	}

	crop := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(crop, crop.Bounds(), img, rect.Min, draw.Src)
	return crop, nil
}
