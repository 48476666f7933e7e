package postprocess

import "image"

// components labels 8-connected groups of non-transparent pixels. labels
// holds -1 for transparent pixels; sizes[i] is the pixel count of group i.
func components(img *image.NRGBA) (labels []int, sizes []int, total int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	labels = make([]int, w*h)
	for i := range labels {
		labels[i] = -1
	}
	opaque := func(x, y int) bool {
		return img.Pix[img.PixOffset(b.Min.X+x, b.Min.Y+y)+3] > 0
	}

	dx := [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
	dy := [8]int{-1, -1, -1, 0, 0, 1, 1, 1}
	queue := make([]int, 0, 1024)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if labels[idx] >= 0 || !opaque(x, y) {
				continue
			}
			id := len(sizes)
			queue = append(queue[:0], idx)
			labels[idx] = id
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
					if labels[ni] < 0 && opaque(nx, ny) {
						labels[ni] = id
						queue = append(queue, ni)
					}
				}
			}
			sizes = append(sizes, size)
			total += size
		}
	}
	return labels, sizes, total
}

// RemoveSmallClusters clears disconnected pixel groups smaller than minRatio
// of all non-transparent pixels. Sliver triangles in raw decoder output
// tend to leave such specks.
func RemoveSmallClusters(img *image.NRGBA, minRatio float64) *image.NRGBA {
	labels, sizes, total := components(img)
	if len(sizes) <= 1 {
		return img
	}
	minSize := int(float64(total) * minRatio)
	return keepIf(img, labels, func(id int) bool { return sizes[id] >= minSize })
}

// KeepLargestComponent clears every pixel group except the biggest one.
func KeepLargestComponent(img *image.NRGBA) *image.NRGBA {
	labels, sizes, _ := components(img)
	if len(sizes) <= 1 {
		return img
	}
	best := 0
	for i := range sizes {
		if sizes[i] > sizes[best] {
			best = i
		}
	}
	return keepIf(img, labels, func(id int) bool { return id == best })
}

func keepIf(img *image.NRGBA, labels []int, keep func(id int) bool) *image.NRGBA {
	b := img.Bounds()
	w := b.Dx()
	result := image.NewNRGBA(b)
	copy(result.Pix, img.Pix)
	for idx, id := range labels {
		if id >= 0 && !keep(id) {
			i := result.PixOffset(b.Min.X+idx%w, b.Min.Y+idx/w)
			result.Pix[i], result.Pix[i+1], result.Pix[i+2], result.Pix[i+3] = 0, 0, 0, 0
		}
	}
	return result
}
