package tileproj

import "testing"

func TestLocalIDRoundTrip(t *testing.T) {
	tile := Tile{X: 12345, Y: 6789, Zoom: 14}
	id := tile.LocalID()
	back := FromLocalID(id, 14)
	if back != tile {
		t.Fatalf("FromLocalID(LocalID()) = %+v, want %+v", back, tile)
	}
}

func TestWorldToTileZoom0(t *testing.T) {
	tile := WorldToTile(0, 0, 0)
	if tile.X != 0 || tile.Y != 0 || tile.Zoom != 0 {
		t.Fatalf("WorldToTile(0,0,0) = %+v, want {0,0,0}", tile)
	}
}

func TestLocalCoordinatesRoundTrip(t *testing.T) {
	lon, lat := 103.851959, 1.290270 // Singapore
	tile := WorldToTile(lon, lat, 14)

	ix, iy := tile.ToLocalCoordinates(lon, lat)
	gotLon, gotLat := tile.FromLocalCoordinates(ix, iy)

	b := tile.Bound()
	lonStep := (b.Max[0] - b.Min[0]) / Resolution
	latStep := (b.Max[1] - b.Min[1]) / Resolution

	if d := gotLon - lon; d > lonStep || d < -lonStep {
		t.Errorf("lon drift %.10f exceeds one step %.10f", d, lonStep)
	}
	if d := gotLat - lat; d > latStep || d < -latStep {
		t.Errorf("lat drift %.10f exceeds one step %.10f", d, latStep)
	}
}

func TestLocalCoordinatesWithinBounds(t *testing.T) {
	tile := WorldToTile(4.8, 51.26, 14)
	ix, iy := tile.ToLocalCoordinates(4.8, 51.26)
	if ix > Resolution || iy > Resolution {
		t.Fatalf("local coords (%d,%d) exceed resolution %d", ix, iy, Resolution)
	}
}
