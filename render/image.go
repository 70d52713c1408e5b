package render

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
)

// ImageSource treats a directory of page images (or a single image file) as
// a document. Pages follow the lexical order of the file names. Image pages
// carry no embedded text, so PageText always returns an empty string.
type ImageSource struct {
	paths []string
}

// NewImageSource creates a source from a single image file or a directory
// of .png, .jpg, or .jpeg files.
func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch filepath.Ext(entry.Name()) {
			case ".png", ".jpg", ".jpeg":
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{path}
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no page images found in %s", path)
	}

	return &ImageSource{paths: paths}, nil
}

// PageCount returns the number of page images
func (s *ImageSource) PageCount() int {
	return len(s.paths)
}

// RenderPage decodes the page image. DPI is ignored: the image is already
// rasterized.
func (s *ImageSource) RenderPage(pageNumber int, dpi int) (image.Image, error) {
	if err := s.checkPage(pageNumber); err != nil {
		return nil, err
	}

	f, err := os.Open(s.paths[pageNumber-1])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding page %d: %w", pageNumber, err)
	}
	return img, nil
}

// PageText returns an empty string: image pages carry no embedded text
func (s *ImageSource) PageText(pageNumber int) (string, error) {
	if err := s.checkPage(pageNumber); err != nil {
		return "", err
	}
	return "", nil
}

// Close is a no-op for image sources
func (s *ImageSource) Close() error {
	return nil
}

func (s *ImageSource) checkPage(pageNumber int) error {
	if pageNumber < 1 || pageNumber > len(s.paths) {
		return fmt.Errorf("page %d out of range [1,%d]", pageNumber, len(s.paths))
	}
	return nil
}
