// SPDX-FileCopyrightText: 2024 Cobble Games
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"flag"
	"image/png"
	"log"
	"os"
	"runtime/pprof"

	"github.com/cobblegames/strata/data"
	"github.com/cobblegames/strata/world/biome"
	"github.com/cobblegames/strata/world/gen"
	"github.com/cobblegames/strata/world/render"
)

func main() {
	var (
		cpuProfile string
		out        string
		seed       int64
		planet     string
	)
	flag.StringVar(&cpuProfile, "cpuprofile", "", "write cpu profile to `file`")
	flag.StringVar(&out, "out", "world.png", "output image `file`")
	flag.Int64Var(&seed, "seed", -1, "world seed override (-1 keeps the configured seed)")
	flag.StringVar(&planet, "planet", "", "planet type override")
	flag.Parse()

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	run(out, seed, planet)
}

func run(out string, seed int64, planet string) {
	bundle, err := data.Load()
	if err != nil {
		log.Fatal(err)
	}
	cfg := bundle.Config
	if seed >= 0 {
		cfg.Seed = seed
	}
	pc := bundle.Planet
	if planet != "" {
		if pc, err = biome.PlanetByName(bundle.Planets, planet); err != nil {
			log.Fatal(err)
		}
	}

	bmap := bundle.BiomeMap
	if seed >= 0 || planet != "" {
		if bmap, err = biome.GenerateMap(pc, uint64(cfg.Seed), cfg.WidthTiles, bundle.Biomes); err != nil {
			log.Fatal(err)
		}
	}

	g := gen.New(cfg, pc, bundle.Biomes, bmap)
	img := render.Render(g, cfg, bundle.Tiles)

	file, err := os.Create(out)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	if err = png.Encode(file, img); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (%dx%d, seed %d, planet %s)", out, cfg.WidthTiles, cfg.HeightTiles, cfg.Seed, pc.Name)
}
