// Package model defines the core data types shared by the slidemap analysis
// pipeline: geometric primitives, detected visual elements, categorized text
// sections, and the scored mappings that relate the two.
//
// Values produced by the detection and segmentation stages are treated as
// immutable once created. A DocumentMapping is built once by the aggregator
// and consumed read-only by downstream slide assembly.
//
// Coordinates are raster coordinates of the rendered page image: the origin
// is the top-left corner and Y grows downward. This differs from the PDF
// coordinate system; conversion happens at rasterization time.
package model
