package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/mogaika/scenewalk/config"
	"github.com/mogaika/scenewalk/export"
	"github.com/mogaika/scenewalk/input"
	"github.com/mogaika/scenewalk/scene"
	"github.com/mogaika/scenewalk/scenes"
	"github.com/mogaika/scenewalk/status"
	"github.com/mogaika/scenewalk/utils"
	"github.com/mogaika/scenewalk/web"
)

func main() {
	var addr, configPath, assetsDir, sceneName, exportPath, policy, inputPath string
	var frames int
	var seed int64
	var dump bool
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&configPath, "config", "", "Path to yaml config")
	flag.StringVar(&assetsDir, "assets", "", "Directory with meshes, images and shaders")
	flag.StringVar(&sceneName, "scene", "crane", "Scene to run: crane, humanoid, wuggy or forest")
	flag.IntVar(&frames, "frames", 0, "Render this many frames headless and print the draw calls of the last one")
	flag.StringVar(&exportPath, "export", "", "Export the scene after the headless run (.gltf, .glb, .fbx, .yaml)")
	flag.Int64Var(&seed, "seed", 1, "Animation random seed")
	flag.StringVar(&policy, "policy", "rename", "Duplicate node names: 'rename' or 'reject'")
	flag.StringVar(&inputPath, "input", "", "Yaml input script for the headless run")
	flag.BoolVar(&dump, "dump", false, "Dump the scene graph after the headless run")
	flag.Parse()

	scene.SetLogger(slog.Default())

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadFile(configPath); err != nil {
			log.Fatal(err)
		}
	}
	// flags given explicitly win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.Address = addr
		case "assets":
			cfg.Assets = assetsDir
		case "scene":
			cfg.Scene = sceneName
		case "seed":
			cfg.Seed = seed
		case "policy":
			cfg.Policy = policy
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if frames > 0 || exportPath != "" || dump {
		if err := headless(cfg, frames, inputPath, exportPath, dump); err != nil {
			log.Fatalf("[scene] %+v", err)
		}
		return
	}

	if err := web.StartServer(cfg.Address, web.NewServer(cfg, scenes.DefaultRegistry(), status.Default)); err != nil {
		log.Fatal(err)
	}
}

func headless(cfg *config.Config, frames int, inputPath, exportPath string, dump bool) error {
	opts, err := cfg.SceneOptions()
	if err != nil {
		return err
	}
	sc, err := scenes.DefaultRegistry().New(cfg.Scene, opts)
	if err != nil {
		return err
	}

	var in input.Provider
	if inputPath != "" {
		f, err := os.Open(inputPath)
		if err != nil {
			return errors.Wrapf(err, "Failed to open input script")
		}
		script, err := input.LoadScript(f)
		f.Close()
		if err != nil {
			return err
		}
		in = script
	}

	runner := scenes.NewRunner(sc, in)
	for i := 0; i < frames; i++ {
		stats, err := runner.Frame()
		if err != nil {
			return err
		}
		if i == frames-1 {
			log.Printf("[scene] %q frame %d: %d nodes, %d draws, %d skipped, depth %d",
				sc.Name(), runner.Frames(), stats.Nodes, stats.Draws, stats.Skipped, stats.MaxDepth)
			for _, c := range runner.Recorder.Calls() {
				fmt.Println(c)
			}
		}
	}

	if dump {
		utils.Dump(sc.Graph().Root)
	}

	if exportPath != "" {
		format, err := export.FormatFromPath(exportPath)
		if err != nil {
			return err
		}
		doc := scenes.Document(sc)
		f, err := os.Create(exportPath)
		if err != nil {
			return errors.Wrapf(err, "Failed to create %q", exportPath)
		}
		defer f.Close()
		if err := export.Write(f, doc, format); err != nil {
			return err
		}
		log.Printf("[scene] Exported %q to %s", sc.Name(), exportPath)
	}
	return nil
}
