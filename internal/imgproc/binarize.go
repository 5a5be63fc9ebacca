package imgproc

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// toGray converts any image to an 8-bit grayscale buffer with a zero-based
// origin.
func toGray(src image.Image) *image.Gray {
	nrgba := imaging.Grayscale(src)
	b := nrgba.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			// Channels are equal after Grayscale, red is enough.
			gray.SetGray(x, y, color.Gray{Y: nrgba.NRGBAAt(b.Min.X+x, b.Min.Y+y).R})
		}
	}
	return gray
}

// adaptiveThreshold binarizes each pixel against the mean of its
// window×window neighborhood minus bias. The local window keeps text and
// paper separable under uneven lighting where a global threshold fails.
// Pixels brighter than the local reference become white (255).
func adaptiveThreshold(gray *image.Gray, window, bias int) *image.Gray {
	w := gray.Bounds().Dx()
	h := gray.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	// Summed-area table with a one-pixel zero border, so any window mean is
	// four lookups.
	stride := w + 1
	integral := make([]int64, stride*(h+1))
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(gray.Pix[y*gray.Stride+x])
			integral[(y+1)*stride+(x+1)] = integral[y*stride+(x+1)] + rowSum
		}
	}

	r := window / 2
	for y := 0; y < h; y++ {
		y0 := max(y-r, 0)
		y1 := min(y+r+1, h)
		for x := 0; x < w; x++ {
			x0 := max(x-r, 0)
			x1 := min(x+r+1, w)
			sum := integral[y1*stride+x1] - integral[y0*stride+x1] -
				integral[y1*stride+x0] + integral[y0*stride+x0]
			mean := sum / int64((x1-x0)*(y1-y0))
			if int64(gray.Pix[y*gray.Stride+x]) > mean-int64(bias) {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// dilate grows white regions by one pixel in every direction (3×3
// structuring element).
func dilate(bin *image.Gray) *image.Gray {
	w := bin.Bounds().Dx()
	h := bin.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if anyWhite(bin, x, y, w, h) {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// erode shrinks white regions by one pixel; a single black neighbor vetoes
// the pixel. Out-of-bounds neighbors do not veto.
func erode(bin *image.Gray) *image.Gray {
	w := bin.Bounds().Dx()
	h := bin.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if bin.Pix[y*bin.Stride+x] != 0 && allWhite(bin, x, y, w, h) {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

func anyWhite(bin *image.Gray, x, y, w, h int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			if bin.Pix[ny*bin.Stride+nx] != 0 {
				return true
			}
		}
	}
	return false
}

func allWhite(bin *image.Gray, x, y, w, h int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			if bin.Pix[ny*bin.Stride+nx] == 0 {
				return false
			}
		}
	}
	return true
}

// equalize applies histogram equalization, spreading the crop's intensity
// range so faded thermal print keeps enough contrast for recognition.
func equalize(gray *image.Gray) *image.Gray {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	total := w * h
	if total == 0 {
		return gray
	}

	var hist [256]int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hist[gray.Pix[y*gray.Stride+x]]++
		}
	}

	// Map through the cumulative distribution, anchored at the first
	// occupied bin.
	var lut [256]uint8
	cdf := 0
	cdfMin := 0
	for _, count := range hist {
		if count > 0 {
			cdfMin = count
			break
		}
	}
	denom := total - cdfMin
	for i := 0; i < 256; i++ {
		cdf += hist[i]
		if denom <= 0 {
			// Flat image, nothing to spread.
			lut[i] = uint8(i)
			continue
		}
		v := (cdf - cdfMin) * 255 / denom
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		lut[i] = uint8(v)
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pix[y*out.Stride+x] = lut[gray.Pix[y*gray.Stride+x]]
		}
	}
	return out
}
