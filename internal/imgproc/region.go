package imgproc

import "image"

// largestRegion finds the 4-connected white component with the maximum pixel
// area and returns its axis-aligned bounding rectangle. Ties resolve to the
// first component encountered in row-major scan order, which keeps the
// selection stable for identical inputs.
func largestRegion(bin *image.Gray) (image.Rectangle, error) {
	w := bin.Bounds().Dx()
	h := bin.Bounds().Dy()

	visited := make([]bool, w*h)
	stack := make([]int, 0, 1024)

	var best image.Rectangle
	bestArea := 0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if visited[idx] || bin.Pix[y*bin.Stride+x] == 0 {
				continue
			}

			area := 0
			minX, minY, maxX, maxY := x, y, x, y

			stack = append(stack[:0], idx)
			visited[idx] = true
			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				cx, cy := cur%w, cur/w

				area++
				if cx < minX {
					minX = cx
				}
				if cx > maxX {
					maxX = cx
				}
				if cy < minY {
					minY = cy
				}
				if cy > maxY {
					maxY = cy
				}

				for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
					nx, ny := cx+d[0], cy+d[1]
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					nidx := ny*w + nx
					if visited[nidx] || bin.Pix[ny*bin.Stride+nx] == 0 {
						continue
					}
					visited[nidx] = true
					stack = append(stack, nidx)
				}
			}

			if area > bestArea {
				bestArea = area
				best = image.Rect(minX, minY, maxX+1, maxY+1)
			}
		}
	}

	if bestArea == 0 {
		return image.Rectangle{}, ErrNoRegion
	}
	return best, nil
}
