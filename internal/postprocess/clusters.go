package postprocess

import "image"

// Despeckle clears 8-connected groups of visible pixels smaller than
// minPixels. Thin triangles seen edge-on leave such specks behind after
// downsampling. minPixels <= 1 leaves the image untouched.
func Despeckle(img *image.NRGBA, minPixels int) *image.NRGBA {
	if minPixels <= 1 {
		return img
	}
	labels, sizes := labelComponents(img)
	if len(sizes) <= 1 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	stride := img.Stride
	result := image.NewNRGBA(b)
	copy(result.Pix, img.Pix)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := labels[y*w+x]
			if l >= 0 && sizes[l] < minPixels {
				i := y*stride + x*4
				result.Pix[i] = 0
				result.Pix[i+1] = 0
				result.Pix[i+2] = 0
				result.Pix[i+3] = 0
			}
		}
	}

	return result
}

// labelComponents assigns every non-transparent pixel the index of its
// 8-connected component; transparent pixels get -1. sizes holds the pixel
// count of each component.
func labelComponents(img *image.NRGBA) (labels []int, sizes []int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	stride := img.Stride

	labels = make([]int, w*h)
	for i := range labels {
		labels[i] = -1
	}
	visible := func(i int) bool {
		return img.Pix[(i/w)*stride+(i%w)*4+3] > 0
	}

	dx := [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
	dy := [8]int{-1, -1, -1, 0, 0, 1, 1, 1}
	queue := make([]int, 0, 1024)

	for start := range labels {
		if labels[start] >= 0 || !visible(start) {
			continue
		}
		id := len(sizes)
		labels[start] = id
		queue = append(queue[:0], start)
		size := 0

		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			size++

			cx, cy := curr%w, curr/w
			for d := 0; d < 8; d++ {
				nx, ny := cx+dx[d], cy+dy[d]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				ni := ny*w + nx
				if labels[ni] < 0 && visible(ni) {
					labels[ni] = id
					queue = append(queue, ni)
				}
			}
		}
		sizes = append(sizes, size)
	}
	return labels, sizes
}
