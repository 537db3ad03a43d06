package physics

// Rect is a block of solid cells.
type Rect struct {
	X, Y int
	W, H int
}

// MergeRects covers every solid cell with as few axis-aligned rectangles as a
// greedy row-major sweep finds: grow right first, then down while the whole
// row below is solid and unclaimed.
func MergeRects(width, height int, solid func(x, y int) bool) []Rect {
	if width <= 0 || height <= 0 || solid == nil {
		return nil
	}
	processed := make([]bool, width*height)
	open := func(x, y int) bool {
		return processed[y*width+x] || !solid(x, y)
	}

	var out []Rect
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if open(x, y) {
				processed[y*width+x] = true
				continue
			}

			w := 1
			for x+w < width && !open(x+w, y) {
				w++
			}

			h := 1
		heightLoop:
			for y+h < height {
				for xi := x; xi < x+w; xi++ {
					if open(xi, y+h) {
						break heightLoop
					}
				}
				h++
			}

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*width+xx] = true
				}
			}
			out = append(out, Rect{X: x, Y: y, W: w, H: h})
		}
	}
	return out
}
