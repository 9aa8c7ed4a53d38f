package awareness

// FitToViewport crops the buffer to the largest centered region with the viewport's aspect
// ratio. A buffer relatively wider than the viewport loses columns, a relatively taller one loses
// rows. Rows are flipped during the copy (destination row h-1-y takes source row y) to match
// bottom-up texture coordinates. A buffer that already has the viewport's aspect ratio is returned
// as an unmodified copy. The boolean is false when the viewport has no area, in which case an
// unmodified copy is returned as well.
func FitToViewport[T Sample](b *Buffer[T], viewportWidth, viewportHeight int) (*Buffer[T], bool) {
	if viewportWidth <= 0 || viewportHeight <= 0 || b.width == 0 || b.height == 0 {
		return newBufferNoCopy(b.width, b.height, append([]T(nil), b.data...), b.meta), false
	}

	w, h := b.width, b.height
	newW, newH := w, h
	cropX, cropY := 0, 0

	// Compare w/h against vw/vh exactly by cross multiplying.
	srcCross, trgCross := w*viewportHeight, viewportWidth*h
	switch {
	case srcCross > trgCross:
		newW = h * viewportWidth / viewportHeight
		cropX = (w - newW) / 2
	case srcCross < trgCross:
		newH = w * viewportHeight / viewportWidth
		cropY = (h - newH) / 2
	default:
		return newBufferNoCopy(w, h, append([]T(nil), b.data...), b.meta), true
	}

	fitted := make([]T, newW*newH)
	for y := 0; y < newH; y++ {
		src := b.data[(y+cropY)*w+cropX : (y+cropY)*w+cropX+newW]
		copy(fitted[(newH-1-y)*newW:(newH-y)*newW], src)
	}

	meta := b.meta
	if meta.Intrinsics != nil {
		cropped := *meta.Intrinsics
		cropped.Width, cropped.Height = newW, newH
		cropped.Ppx -= float64(cropX)
		cropped.Ppy -= float64(cropY)
		meta.Intrinsics = &cropped
	}
	return newBufferNoCopy(newW, newH, fitted, meta), true
}
