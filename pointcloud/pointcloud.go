// Package pointcloud holds clouds of world space points unprojected from the aligned depth of a
// viewport, optionally colored by the semantic channels seen there, and reads and writes them as
// PCD files.
package pointcloud

import (
	"image/color"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Data describes what is known about a single point besides its position.
type Data struct {
	hasColor bool
	c        color.NRGBA
}

// NewBasicData returns data for a point that is solely positionally based.
func NewBasicData() Data {
	return Data{}
}

// NewColoredData returns data for a point with a color.
func NewColoredData(c color.NRGBA) Data {
	return Data{hasColor: true, c: c}
}

// HasColor returns whether or not this point is colored.
func (d Data) HasColor() bool {
	return d.hasColor
}

// Color returns the color of the point; opaque black when it has none.
func (d Data) Color() color.NRGBA {
	if !d.hasColor {
		return color.NRGBA{A: 255}
	}
	return d.c
}

// MetaData is data about what's stored in the point cloud.
type MetaData struct {
	HasColor bool

	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// NewMetaData returns the metadata of an empty cloud.
func NewMetaData() MetaData {
	return MetaData{
		MinX: math.MaxFloat64,
		MinY: math.MaxFloat64,
		MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MaxY: -math.MaxFloat64,
		MaxZ: -math.MaxFloat64,
	}
}

// Merge grows the metadata to account for a new point.
func (meta *MetaData) Merge(p r3.Vector, d Data) {
	if d.HasColor() {
		meta.HasColor = true
	}
	meta.MinX, meta.MaxX = math.Min(meta.MinX, p.X), math.Max(meta.MaxX, p.X)
	meta.MinY, meta.MaxY = math.Min(meta.MinY, p.Y), math.Max(meta.MaxY, p.Y)
	meta.MinZ, meta.MaxZ = math.Min(meta.MinZ, p.Z), math.Max(meta.MaxZ, p.Z)
}

// PointCloud is a general purpose container of points, in meters.
type PointCloud interface {
	// Size returns the number of points in the cloud.
	Size() int

	// MetaData returns meta data.
	MetaData() MetaData

	// Set places the given point in the cloud, replacing the data of a point already there.
	Set(p r3.Vector, d Data) error

	// At returns the data of the point at the given position and whether there is one.
	At(x, y, z float64) (Data, bool)

	// Iterate calls fn for every point, in insertion order, until it returns false.
	Iterate(fn func(p r3.Vector, d Data) bool)
}

type pointAndData struct {
	p r3.Vector
	d Data
}

// basicPointCloud keeps points in insertion order, indexed by position.
type basicPointCloud struct {
	points []pointAndData
	index  map[r3.Vector]int
	meta   MetaData
}

// New returns an empty PointCloud.
func New() PointCloud {
	return NewWithPrealloc(0)
}

// NewWithPrealloc returns an empty PointCloud with room for size points.
func NewWithPrealloc(size int) PointCloud {
	return &basicPointCloud{
		points: make([]pointAndData, 0, size),
		index:  make(map[r3.Vector]int, size),
		meta:   NewMetaData(),
	}
}

func (cloud *basicPointCloud) Size() int {
	return len(cloud.points)
}

func (cloud *basicPointCloud) MetaData() MetaData {
	return cloud.meta
}

func (cloud *basicPointCloud) At(x, y, z float64) (Data, bool) {
	i, ok := cloud.index[r3.Vector{X: x, Y: y, Z: z}]
	if !ok {
		return Data{}, false
	}
	return cloud.points[i].d, true
}

// Set rejects points with a NaN or infinite component.
func (cloud *basicPointCloud) Set(p r3.Vector, d Data) error {
	for _, c := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return errors.Errorf("point %v is not finite", p)
		}
	}
	if i, ok := cloud.index[p]; ok {
		cloud.points[i].d = d
		if d.HasColor() {
			cloud.meta.HasColor = true
		}
		return nil
	}
	cloud.index[p] = len(cloud.points)
	cloud.points = append(cloud.points, pointAndData{p: p, d: d})
	cloud.meta.Merge(p, d)
	return nil
}

func (cloud *basicPointCloud) Iterate(fn func(p r3.Vector, d Data) bool) {
	for _, pd := range cloud.points {
		if !fn(pd.p, pd.d) {
			return
		}
	}
}
