package pointcloud

import (
	"image/color"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/awareness/awareness"
	"go.viam.com/awareness/utils"
)

// DepthQuerier is what a cloud is unprojected from: the depth and world position seen at every
// pixel of a viewport.
type DepthQuerier interface {
	Viewport() awareness.Viewport
	Depth(x, y int) float32
	WorldPosition(x, y int) r3.Vector
}

// ChannelQuerier reports the semantic channels seen at a viewport pixel.
type ChannelQuerier interface {
	ChannelIndicesAt(x, y int) []int
}

// NewFromViewport unprojects every stride-th pixel of the viewport with usable depth to its world
// position. When channels is not nil, points are colored palette[i] for the lowest channel i seen
// there; points without channels stay uncolored.
func NewFromViewport(depth DepthQuerier, channels ChannelQuerier, palette []color.Color, stride int) (PointCloud, error) {
	stride = max(1, stride)
	viewport := depth.Viewport()
	rows := (viewport.Height + stride - 1) / stride
	cols := (viewport.Width + stride - 1) / stride

	perRow := make([][]pointAndData, rows)
	utils.ParallelForEachRow(rows, func(row int) {
		y := row * stride
		points := make([]pointAndData, 0, cols)
		for x := 0; x < viewport.Width; x += stride {
			d := float64(depth.Depth(x, y))
			if d <= 0 || math.IsInf(d, 0) || math.IsNaN(d) {
				continue
			}
			data := NewBasicData()
			if channels != nil {
				if indices := channels.ChannelIndicesAt(x, y); len(indices) > 0 && indices[0] < len(palette) {
					data = NewColoredData(color.NRGBAModel.Convert(palette[indices[0]]).(color.NRGBA))
				}
			}
			points = append(points, pointAndData{p: depth.WorldPosition(x, y), d: data})
		}
		perRow[row] = points
	})

	pc := NewWithPrealloc(rows * cols)
	for _, points := range perRow {
		for _, pd := range points {
			if err := pc.Set(pd.p, pd.d); err != nil {
				return nil, err
			}
		}
	}
	return pc, nil
}
