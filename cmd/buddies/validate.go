package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"chosenoffset.com/buddies/internal/config"
	"chosenoffset.com/buddies/internal/world"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config]",
		Short: "Check a config file and every map in it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return validate(cmd.OutOrStdout(), path)
		},
	}
}

func validate(out io.Writer, path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	names := make([]string, 0, len(cfg.Maps))
	for name := range cfg.Maps {
		names = append(names, name)
	}
	sort.Strings(names)

	types := world.TileTypes(cfg.Tiles)
	var failed int
	for _, name := range names {
		g, err := world.NewGrid(cfg.Maps[name].Rows, types, cfg.TileSize)
		if err != nil {
			fmt.Fprintf(out, "  %s: %v\n", name, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "  %s: %dx%d ok\n", name, g.Width, g.Height)
	}
	for _, b := range cfg.Buddies {
		if tile, ok := cfg.TileAt("world", b.At); ok && !tile.Walkable {
			fmt.Fprintf(out, "  buddy %s stands on %s\n", b.Name, tile.Name)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("validation found %d errors", failed)
	}
	fmt.Fprintln(out, "No issues found.")
	return nil
}
