package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"sandbox-server/internal/domain"
	"sandbox-server/pkg/worldgen"
)

// Символы блоков для текстового рендера
var glyphs = map[domain.BlockKind]byte{
	domain.BlockAir:   '.',
	domain.BlockGrass: '"',
	domain.BlockDirt:  '#',
	domain.BlockStone: '%',
	domain.BlockWood:  '=',
}

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "render":
		seed, ok := seedArg("render")
		if !ok {
			return
		}
		fmt.Print(render(worldgen.Generate(seed)))
	case "count":
		seed, ok := seedArg("count")
		if !ok {
			return
		}
		w := worldgen.Generate(seed)
		for _, kind := range append([]domain.BlockKind{domain.BlockAir}, domain.PlaceableKinds...) {
			fmt.Printf("%-6s %d\n", kind.String(), w.CountKind(kind))
		}
	case "derive":
		if len(os.Args) < 4 {
			fmt.Println("Usage: worldtool derive <seed> <salt>")
			return
		}
		seed, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			fmt.Printf("Invalid seed: %v\n", err)
			return
		}
		salt, err := strconv.ParseUint(os.Args[3], 0, 64)
		if err != nil {
			fmt.Printf("Invalid salt: %v\n", err)
			return
		}
		fmt.Println(worldgen.DeriveSeed(seed, salt))
	default:
		printHelp()
	}
}

func seedArg(cmd string) (int64, bool) {
	if len(os.Args) < 3 {
		fmt.Printf("Usage: worldtool %s <seed>\n", cmd)
		return 0, false
	}
	seed, err := strconv.ParseInt(os.Args[2], 10, 64)
	if err != nil {
		fmt.Printf("Invalid seed: %v\n", err)
		return 0, false
	}
	return seed, true
}

func render(w *domain.World) string {
	var sb strings.Builder
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			b, err := w.BlockAt(x, y)
			if err != nil {
				sb.WriteByte('?')
				continue
			}
			g, ok := glyphs[b.Kind]
			if !ok {
				g = '?'
			}
			sb.WriteByte(g)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func printHelp() {
	fmt.Println(`World Tool - просмотр сгенерированных миров
Commands:
  render <seed>          - нарисовать мир символами
  count <seed>           - число блоков каждого вида
  derive <seed> <salt>   - производное зерно (как для RNG ботов)`)
}
