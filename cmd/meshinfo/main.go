// meshinfo inspects the vertex data of glTF meshes.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/meshinfo/internal/config"
	"github.com/Faultbox/meshinfo/internal/logger"
)

var (
	flagDemo = flag.String("demo", "", "Inspect a built-in mesh instead of a file (quad, cube)")
	flagMesh = flag.Int("mesh", 0, "Index of the mesh within the glTF file")
	flagOut  = flag.String("out", "preview.png", "Output file of the preview command")
	flagMode = flag.String("mode", "", "Display mode of the preview command")
)

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}
	command, rest := args[0], args[1:]

	var run func(*config.Config, []string) error
	switch command {
	case "info":
		run = cmdInfo
	case "table":
		run = cmdTable
	case "preview":
		run = cmdPreview
	case "view":
		run = cmdView
	case "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	opts := logger.Options{Level: cfg.Logging.Level, Console: os.Stderr}
	if command == "table" {
		opts.Console = nil
	}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithOptions(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	err = run(cfg, rest)
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `meshinfo - mesh vertex data inspector

Usage:
  meshinfo [flags] <command> [file.gltf|file.glb]

Commands:
  info      Print vertex count, attributes, submeshes and bounds
  table     Browse the vertex table (plain text when not a terminal)
  preview   Render the mesh preview to a PNG file
  view      Open the inspector window

Flags:`)
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, `
Examples:
  meshinfo info model.glb
  meshinfo -select 0,3 table model.glb
  meshinfo -demo cube -mode normals -out cube.png preview
  meshinfo -mesh 2 view scene.gltf`)
}
