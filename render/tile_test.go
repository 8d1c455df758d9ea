package render

import (
	"testing"

	"pgregory.net/rapid"
)

func TestBuildTilesCoversExactlyOnce(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		width := rapid.IntRange(1, 300).Draw(rt, "width")
		height := rapid.IntRange(1, 300).Draw(rt, "height")
		tileSize := rapid.IntRange(1, 300).Draw(rt, "tileSize")

		tiles := BuildTiles(width, height, tileSize)

		covered := make([][]bool, height)
		for y := range covered {
			covered[y] = make([]bool, width)
		}

		for _, tile := range tiles {
			if tile.X0 < 0 || tile.Y0 < 0 || tile.X0+tile.Width > width || tile.Y0+tile.Height > height {
				rt.Fatalf("tile %+v exceeds image bounds %dx%d", tile, width, height)
			}
			for y := tile.Y0; y < tile.Y0+tile.Height; y++ {
				for x := tile.X0; x < tile.X0+tile.Width; x++ {
					if covered[y][x] {
						rt.Fatalf("pixel (%d,%d) covered by more than one tile", x, y)
					}
					covered[y][x] = true
				}
			}
		}

		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if !covered[y][x] {
					rt.Fatalf("pixel (%d,%d) not covered by any tile", x, y)
				}
			}
		}
	})
}

func TestBuildTilesTaskIDsAreDenseInRasterOrder(t *testing.T) {
	tiles := BuildTiles(10, 10, 3)
	for i, tile := range tiles {
		if tile.TaskID != int32(i) {
			t.Errorf("tile %d: task id %d, want %d", i, tile.TaskID, i)
		}
	}
}

func TestBuildTilesLargeTileSizeYieldsSingleTile(t *testing.T) {
	tiles := BuildTiles(100, 80, 1000)
	if len(tiles) != 1 {
		t.Fatalf("got %d tiles, want 1", len(tiles))
	}
	if tiles[0].Width != 100 || tiles[0].Height != 80 {
		t.Errorf("tile dimensions %dx%d, want 100x80", tiles[0].Width, tiles[0].Height)
	}
}
