package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"scene-manager/internal/infrastructure/storage"
	"scene-manager/internal/scene"
	"scene-manager/pkg/demo"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	var err error
	switch os.Args[1] {
	case "convert":
		if len(os.Args) < 4 {
			fmt.Println("Usage: scenectl convert <in.hcl|in.scns> <out.scns>")
			return
		}
		err = convert(os.Args[2], os.Args[3])
	case "dump":
		if len(os.Args) < 3 {
			fmt.Println("Usage: scenectl dump <file>")
			return
		}
		err = dump(os.Args[2])
	case "demo":
		if len(os.Args) < 4 {
			fmt.Println("Usage: scenectl demo <seed> <out.scns>")
			return
		}
		var seed int64
		seed, err = strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			fmt.Printf("Invalid seed: %v\n", err)
			os.Exit(1)
		}
		err = storage.WriteSnapshot(os.Args[3], demo.Generate(seed))
	default:
		printHelp()
		return
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func convert(in, out string) error {
	specs, err := storage.LoadScene(in)
	if err != nil {
		return err
	}
	if err := storage.WriteSnapshot(out, specs); err != nil {
		return err
	}
	fmt.Printf("Wrote %d entities to %s\n", len(specs), out)
	return nil
}

func dump(path string) error {
	if strings.HasSuffix(strings.ToLower(path), ".scns") {
		snap, err := storage.LoadSnapshot(path)
		if err != nil {
			return err
		}
		fmt.Printf("Snapshot taken %s\n", time.UnixMilli(snap.Timestamp).Format(time.RFC3339))
		printSpecs(snap.Entities)
		return nil
	}

	specs, err := storage.LoadScene(path)
	if err != nil {
		return err
	}
	printSpecs(specs)
	return nil
}

func printSpecs(specs []scene.Spec) {
	for i, s := range specs {
		var flags []string
		if !s.Active {
			flags = append(flags, "inactive")
		}
		if s.Hidden {
			flags = append(flags, "hidden")
		}
		if s.Static {
			flags = append(flags, "static")
		}
		p := s.Transform.Position
		fmt.Printf("%3d  %-24s pos(%.2f, %.2f, %.2f)  [%s]  %s\n",
			i, s.Name, p.X, p.Y, p.Z, strings.Join(s.Capabilities, ", "), strings.Join(flags, " "))
	}
	fmt.Printf("%d entities\n", len(specs))
}

func printHelp() {
	fmt.Println(`Scene tool - offline scene file utilities
Commands:
  convert <in> <out.scns>   - convert an .hcl or .scns scene into a snapshot
  dump <file>               - list the entities of an .hcl or .scns scene
  demo <seed> <out.scns>    - write the generated demo scene for seed`)
}
