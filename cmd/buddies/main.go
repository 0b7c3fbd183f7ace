package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"chosenoffset.com/buddies/internal/config"
	"chosenoffset.com/buddies/internal/game"
	"chosenoffset.com/buddies/internal/logging"
	ebitenrender "chosenoffset.com/buddies/internal/render/ebiten"
)

func main() {
	root := rootCmd()
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(validateCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

type runOptions struct {
	configPath string
	seed       int64
	debug      bool
	scale      float64
}

func rootCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:          "buddies",
		Short:        "Walk around, chat with buddies and learn what they know",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "YAML file overriding the built-in settings")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "console logging at debug level and the debug overlay")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "world pixel scale (0 keeps the configured value)")
	return cmd
}

func run(opts *runOptions) error {
	log := logging.New(opts.debug)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.scale > 0 {
		cfg.Screen.Scale = opts.scale
	}
	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	session, err := game.NewSession(cfg, renderer, rand.New(rand.NewSource(seed)), log)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.Close()

	g := game.New(session, inputMgr, game.WallClock())
	g.Debug = opts.debug

	engine.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)
	engine.SetWindowTitle(cfg.Title)
	engine.SetWindowResizable(true)
	engine.SetUpdatePerFrame()

	log.Info().Int64("seed", seed).Str("config", opts.configPath).Msg("starting game")
	if err := engine.RunGame(g); err != nil {
		return err
	}
	log.Info().Uint64("ticks", g.Ticks()).Msg("game closed")
	return nil
}
