package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/annel0/tileworld/internal/level"
)

func main() {
	def := level.DefaultGenerateOptions()
	var (
		name      = flag.String("name", def.Name, "Level name")
		width     = flag.Int("width", def.Width, "Width in tiles")
		height    = flag.Int("height", def.Height, "Height in tiles")
		tileSize  = flag.Float64("tile", def.TileSize, "Tile size in pixels")
		seed      = flag.Int64("seed", def.Seed, "Noise seed")
		threshold = flag.Float64("threshold", def.Threshold, "Noise threshold for rocks (0..1)")
		scale     = flag.Float64("scale", def.Scale, "Noise scale in tiles")
		clearSize = flag.Int("clear", def.ClearSize, "Side of the clear meadow in tiles")
		out       = flag.String("out", "", "Output file (default stdout)")
	)
	flag.Parse()

	l, err := level.Generate(level.GenerateOptions{
		Name:      *name,
		Width:     *width,
		Height:    *height,
		TileSize:  *tileSize,
		Seed:      *seed,
		Threshold: *threshold,
		Scale:     *scale,
		ClearSize: *clearSize,
	})
	if err != nil {
		log.Fatalf("❌ Generate failed: %v", err)
	}

	data, err := l.Encode()
	if err != nil {
		log.Fatalf("❌ Encode failed: %v", err)
	}

	if *out == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			log.Fatalf("❌ Write failed: %v", err)
		}
		return
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		log.Fatalf("❌ Write failed: %v", err)
	}

	tiles, err := l.BuildCollisionMap()
	if err != nil {
		log.Fatalf("❌ Generated level is invalid: %v", err)
	}
	fmt.Printf("✅ %s: %dx%d tiles, %d solid, written to %s\n", l.Name, l.Width, l.Height, tiles.SolidCount(), *out)
}
