package render

// Tile is a rectangular, disjoint subregion of the output image: the unit
// of work distribution (§3). task_id is a dense integer assigned at queue
// construction time.
type Tile struct {
	X0, Y0        int
	Width, Height int
	TaskID        int32
}

// RenderTask pairs a Tile with the sampling parameters it should be
// rendered with (duplicated from Config so a task is self-describing once
// dispatched).
type RenderTask struct {
	Tile            Tile
	SamplesPerPixel int
	MaxDepth        int
}

// BuildTiles partitions an imageWidth x imageHeight image into tileSize x
// tileSize tiles in raster order, assigning each a dense task_id starting
// at 0. Right and bottom edge tiles are narrower/shorter than tileSize
// when the image dimensions are not exact multiples. Every pixel is
// covered by exactly one tile, and no tile exceeds the image bounds —
// the tile-partitioning invariant from §8.
func BuildTiles(imageWidth, imageHeight, tileSize int) []Tile {
	tiles := make([]Tile, 0, ((imageWidth+tileSize-1)/tileSize)*((imageHeight+tileSize-1)/tileSize))
	var taskID int32
	for y0 := 0; y0 < imageHeight; y0 += tileSize {
		h := tileSize
		if y0+h > imageHeight {
			h = imageHeight - y0
		}
		for x0 := 0; x0 < imageWidth; x0 += tileSize {
			w := tileSize
			if x0+w > imageWidth {
				w = imageWidth - x0
			}
			tiles = append(tiles, Tile{X0: x0, Y0: y0, Width: w, Height: h, TaskID: taskID})
			taskID++
		}
	}
	return tiles
}

// BuildTasks builds one RenderTask per tile produced by BuildTiles, using
// the samples/depth from cfg — the work-queue seed described in §4.6.
func BuildTasks(cfg Config) []RenderTask {
	tiles := BuildTiles(cfg.ImageWidth, cfg.ImageHeight, cfg.TileSize)
	tasks := make([]RenderTask, len(tiles))
	for i, tile := range tiles {
		tasks[i] = RenderTask{Tile: tile, SamplesPerPixel: cfg.SamplesPerPixel, MaxDepth: cfg.MaxDepth}
	}
	return tasks
}
