package raster

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

// testImage builds a white canvas with black rectangles as ink
func testImage(w, h int, inkRects []image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	for _, r := range inkRects {
		draw.Draw(img, r, image.NewUniform(color.Black), image.Point{}, draw.Src)
	}
	return img
}

func TestBuildPage_SingleRow(t *testing.T) {
	// Five glyphs on a 14-pixel grid, one of them taller (an ascender).
	var rects []image.Rectangle
	for i := 0; i < 5; i++ {
		x := 8 + i*14
		top := 10
		if i == 2 {
			top = 6
		}
		rects = append(rects, image.Rect(x, top, x+10, 24))
	}
	pg := BuildPage(testImage(120, 40, rects))

	if len(pg.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(pg.Blocks))
	}
	block := pg.Blocks[0]
	if len(block.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(block.Rows))
	}
	row := block.Rows[0]
	if len(row.Blobs) != 5 {
		t.Fatalf("expected 5 blobs, got %d", len(row.Blobs))
	}
	for i, b := range row.Blobs {
		if b.Box.X != 8+i*14 || b.Box.Width != 10 {
			t.Errorf("blob %d at x=%d width=%d", i, b.Box.X, b.Box.Width)
		}
		if b.JoinedToPrev {
			t.Errorf("blob %d wrongly marked joined", i)
		}
	}
	if row.XHeight != 14 {
		t.Errorf("expected x-height 14, got %f", row.XHeight)
	}
	if row.AscRise != 4 {
		t.Errorf("expected ascender rise 4, got %f", row.AscRise)
	}
	if row.AllCaps {
		t.Errorf("expected ascender texture to rule out all-caps")
	}
	if row.Baseline.Intercept != 24 {
		t.Errorf("expected baseline at 24, got %f", row.Baseline.Intercept)
	}
	if pg.TopRight.X != 120 || pg.TopRight.Y != 0 {
		t.Errorf("expected page top-right at (120, 0), got (%d, %d)",
			pg.TopRight.X, pg.TopRight.Y)
	}
}

func TestBuildPage_UniformHeightsReadAsAllCaps(t *testing.T) {
	var rects []image.Rectangle
	for i := 0; i < 4; i++ {
		x := 5 + i*14
		rects = append(rects, image.Rect(x, 10, x+10, 24))
	}
	pg := BuildPage(testImage(100, 40, rects))

	row := pg.Blocks[0].Rows[0]
	if !row.AllCaps {
		t.Errorf("expected uniform heights to read as all-caps")
	}
}

func TestBuildPage_TwoRows(t *testing.T) {
	rects := []image.Rectangle{
		image.Rect(5, 5, 15, 19),
		image.Rect(20, 5, 30, 19),
		image.Rect(5, 40, 15, 54),
		image.Rect(20, 40, 30, 54),
	}
	pg := BuildPage(testImage(60, 70, rects))

	rows := pg.Blocks[0].Rows
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Box().Y != 5 || rows[1].Box().Y != 40 {
		t.Errorf("expected rows in top-down order, got y=%d and y=%d",
			rows[0].Box().Y, rows[1].Box().Y)
	}
}

func TestBuildPage_DotMarkedAsJoined(t *testing.T) {
	rects := []image.Rectangle{
		image.Rect(5, 10, 15, 24), // glyph body
		image.Rect(8, 4, 12, 8),   // dot above it
		image.Rect(20, 10, 30, 24),
	}
	pg := BuildPage(testImage(50, 40, rects))

	row := pg.Blocks[0].Rows[0]
	if len(row.Blobs) != 3 {
		t.Fatalf("expected 3 blobs, got %d", len(row.Blobs))
	}
	joined := 0
	for _, b := range row.Blobs {
		if b.JoinedToPrev {
			joined++
		}
	}
	if joined != 1 {
		t.Errorf("expected exactly one joined fragment, got %d", joined)
	}
}

func TestBuildPage_Projection(t *testing.T) {
	rects := []image.Rectangle{
		image.Rect(5, 10, 15, 24),
		image.Rect(19, 10, 29, 24),
	}
	pg := BuildPage(testImage(40, 40, rects))

	row := pg.Blocks[0].Rows[0]
	proj := row.Projection
	if proj == nil {
		t.Fatalf("expected a projection")
	}
	if proj.Left() != 5 || proj.Right() != 29 {
		t.Errorf("expected extent [5, 29), got [%d, %d)", proj.Left(), proj.Right())
	}
	if proj.At(6) != 14 {
		t.Errorf("expected 14 ink pixels in a blob column, got %d", proj.At(6))
	}
	if proj.At(16) != 0 {
		t.Errorf("expected empty gap column, got %d", proj.At(16))
	}
}

func TestComponents_EightConnected(t *testing.T) {
	// Two pixel runs touching only diagonally still form one component.
	img := testImage(10, 10, []image.Rectangle{
		image.Rect(2, 2, 4, 4),
		image.Rect(4, 4, 6, 6),
	})
	pg := BuildPage(img)

	if n := len(pg.Blocks[0].Rows[0].Blobs); n != 1 {
		t.Errorf("expected 1 blob from diagonal contact, got %d", n)
	}
}

func TestComponents_DropsSinglePixelNoise(t *testing.T) {
	img := testImage(30, 30, []image.Rectangle{
		image.Rect(5, 5, 15, 19),
		image.Rect(25, 25, 26, 26), // lone pixel
	})
	pg := BuildPage(img)

	total := 0
	for _, block := range pg.Blocks {
		for _, row := range block.Rows {
			total += len(row.Blobs)
		}
	}
	if total != 1 {
		t.Errorf("expected noise filtered, got %d blobs", total)
	}
}

func TestOtsuLevel_SeparatesBimodal(t *testing.T) {
	img := testImage(20, 20, []image.Rectangle{image.Rect(0, 0, 20, 10)})
	gray := grayOf(img)

	level := otsuLevel(gray)
	if level > 250 {
		t.Errorf("expected threshold below the white peak, got %d", level)
	}
}

// grayOf mirrors BuildPage's grayscale step for direct threshold tests
func grayOf(img *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, image.Point{}, draw.Src)
	return out
}

func TestLoadPage_MissingFile(t *testing.T) {
	if _, err := LoadPage("/nonexistent/page.png"); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
