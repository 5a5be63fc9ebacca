// Package imgproc isolates the receipt body from the photo background and
// enhances text contrast ahead of recognition.
//
// The normalization sequence mirrors a classic document-scanning pipeline:
// adaptive binarization to separate the bright receipt from its surroundings,
// morphological cleanup so the paper region forms one solid blob, a
// largest-region search for the receipt boundary, and a sharpen +
// histogram-equalization pass over the cropped source pixels. The crop is
// always taken from the original image, never from the binarized buffer.
package imgproc

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"receiptscan/internal/logger"
)

const (
	// thresholdWindow is the adaptive threshold neighborhood size. Large and
	// odd so the local mean tracks uneven lighting across the photograph.
	thresholdWindow = 101

	// thresholdBias is subtracted from the local mean before comparison.
	thresholdBias = 1

	// headerFraction selects the top 1/headerFraction of the crop as the
	// header region, where CNPJ labels cluster on Brazilian receipts.
	headerFraction = 3
)

// sharpenKernel boosts the center pixel and subtracts a diagonal neighbor,
// emulating edge enhancement before the contrast pass.
var sharpenKernel = [9]float64{
	1, 0, 0,
	0, 1.8, 0,
	0, 0, -1,
}

// Result holds the OCR-ready crop and the header sub-crop used for
// structured key-value extraction.
type Result struct {
	// Image is the enhanced receipt crop, or the untouched original when
	// region detection failed.
	Image image.Image

	// Header is the top third of the crop; nil when detection failed.
	Header image.Image

	// Bounds is the detected receipt bounding box in source coordinates.
	Bounds image.Rectangle
}

// Normalizer produces OCR-ready crops from raw receipt photographs.
type Normalizer struct {
	log zerolog.Logger
}

func NewNormalizer() *Normalizer {
	return &Normalizer{log: logger.WithComponent("imgproc")}
}

// Normalize isolates the receipt region and enhances it for OCR. On any
// failure it returns the original image unchanged together with the error so
// the caller can record the annotation and continue with degraded input.
func (n *Normalizer) Normalize(src image.Image) (*Result, error) {
	res, err := n.normalize(src)
	if err != nil {
		n.log.Warn().Err(err).Msg("Receipt region detection failed, keeping original image")
		return &Result{Image: src}, err
	}

	n.log.Debug().
		Int("x", res.Bounds.Min.X).
		Int("y", res.Bounds.Min.Y).
		Int("width", res.Bounds.Dx()).
		Int("height", res.Bounds.Dy()).
		Msg("Receipt region detected")

	return res, nil
}

func (n *Normalizer) normalize(src image.Image) (*Result, error) {
	const op = "Normalize"

	if src == nil || src.Bounds().Dx() <= 0 || src.Bounds().Dy() <= 0 {
		return nil, WrapImageError(op, ErrEmptyImage, "zero-area source image")
	}

	// Work on a zero-based copy so component coordinates match crop
	// coordinates regardless of the decoded image's origin.
	orig := imaging.Clone(src)

	gray := toGray(orig)
	bin := adaptiveThreshold(gray, thresholdWindow, thresholdBias)

	// Closing merges broken strokes into solid blobs; the extra erosion
	// drops speckle noise. This only serves region detection, the pixels
	// handed to OCR come from the source crop below.
	bin = erode(dilate(bin))
	bin = erode(bin)

	region, err := largestRegion(bin)
	if err != nil {
		return nil, WrapImageError(op, err, "no receipt region found")
	}
	if region.Empty() {
		return nil, WrapImageError(op, ErrEmptyRegion, "degenerate bounding box")
	}

	crop := imaging.Crop(orig, region)
	if crop.Bounds().Empty() {
		return nil, WrapImageError(op, ErrEmptyRegion, "empty crop")
	}

	sharpened := imaging.Convolve3x3(crop, sharpenKernel, nil)
	enhanced := equalize(toGray(sharpened))

	return &Result{
		Image:  enhanced,
		Header: headerCrop(crop),
		Bounds: region,
	}, nil
}

// headerCrop returns the top third of the receipt crop, or nil when the crop
// is too short to carve one out.
func headerCrop(img image.Image) image.Image {
	b := img.Bounds()
	h := b.Dy() / headerFraction
	if h <= 0 {
		return nil
	}
	return imaging.Crop(img, image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+h))
}
