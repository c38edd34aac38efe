// Package tileproj implements the web-mercator tile math shared by the
// tile-graph store: world coordinates to tile ids, and tile-local
// quantised coordinates within a tile.
package tileproj

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// Resolution is the number of quantisation steps per axis within a tile:
// (1<<12)-1, i.e. 12 bits per axis.
const Resolution = 4095

// Tile identifies a web-mercator tile at a given zoom level.
type Tile struct {
	X, Y uint32
	Zoom uint8
}

// WorldToTile projects a geographic point to the tile containing it at the
// given zoom, using the standard slippy-map projection.
func WorldToTile(lon, lat float64, zoom uint8) Tile {
	mt := maptile.At(orb.Point{lon, lat}, maptile.Zoom(zoom))
	return Tile{X: mt.X, Y: mt.Y, Zoom: zoom}
}

// LocalID returns the flattened tile id y*2^zoom+x used to address the
// tile-index and edge-record endpoint fields.
func (t Tile) LocalID() uint32 {
	return t.Y*(uint32(1)<<t.Zoom) + t.X
}

// FromLocalID recovers a Tile from its flattened local id at the given zoom.
func FromLocalID(localID uint32, zoom uint8) Tile {
	n := uint32(1) << zoom
	return Tile{X: localID % n, Y: localID / n, Zoom: zoom}
}

func (t Tile) toMaptile() maptile.Tile {
	return maptile.Tile{X: t.X, Y: t.Y, Z: maptile.Zoom(t.Zoom)}
}

// Bound returns the tile's geographic bounding box.
func (t Tile) Bound() orb.Bound {
	return t.toMaptile().Bound()
}

// ToLocalCoordinates quantises a geographic point known to lie within the
// tile into 12-bit x/y coordinates local to the tile. Points outside the
// tile produce undefined but bounded results; clamping is the caller's
// responsibility.
func (t Tile) ToLocalCoordinates(lon, lat float64) (ix, iy uint16) {
	b := t.Bound()
	lonStep := (b.Max[0] - b.Min[0]) / Resolution
	latStep := (b.Max[1] - b.Min[1]) / Resolution
	fx := math.Floor((lon - b.Min[0]) / lonStep)
	fy := math.Floor((b.Max[1] - lat) / latStep)
	return uint16(fx), uint16(fy)
}

// FromLocalCoordinates is the linear inverse of ToLocalCoordinates.
func (t Tile) FromLocalCoordinates(ix, iy uint16) (lon, lat float64) {
	b := t.Bound()
	lonStep := (b.Max[0] - b.Min[0]) / Resolution
	latStep := (b.Max[1] - b.Min[1]) / Resolution
	lon = b.Min[0] + float64(ix)*lonStep
	lat = b.Max[1] - float64(iy)*latStep
	return lon, lat
}
