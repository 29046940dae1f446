package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	ebitenaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/1siamBot/rpg-engine/engine/audio"
	"github.com/1siamBot/rpg-engine/engine/config"
	"github.com/1siamBot/rpg-engine/engine/core"
	"github.com/1siamBot/rpg-engine/engine/game"
	"github.com/1siamBot/rpg-engine/engine/input"
	"github.com/1siamBot/rpg-engine/engine/logging"
	"github.com/1siamBot/rpg-engine/engine/network"
	"github.com/1siamBot/rpg-engine/engine/render"
	"github.com/1siamBot/rpg-engine/engine/ui"
)

// Game implements ebiten.Game interface
type Game struct {
	ctx       context.Context
	cfg       config.Config
	log       *zap.Logger
	engine    *game.Engine
	renderer  *render.Renderer
	hud       *ui.HUD
	menu      *ui.PauseMenu
	input     *input.InputState
	audio     *audio.AudioManager
	spectator *network.Spectator

	lastFrame  time.Time
	sinceFeed  time.Duration
	muted      bool
	terminated bool
}

func main() {
	cfgPath := flag.String("config", "", "path to a YAML config file")
	seed := flag.Int64("seed", 0, "override the simulation seed")
	spectate := flag.String("spectate", "", "serve the spectator feed on this address")
	flag.Parse()

	if err := run(*cfgPath, *seed, *spectate); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfgPath string, seed int64, spectate string) error {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
	}
	if seed != 0 {
		cfg.Sim.Seed = seed
	}
	if spectate != "" {
		cfg.Spectator.Enabled, cfg.Spectator.Addr = true, spectate
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	grp, gctx := errgroup.WithContext(ctx)

	g := newGame(gctx, cfg, log)
	log.Info("session started",
		zap.String("session", g.engine.Session),
		zap.Int64("seed", cfg.Sim.Seed),
		zap.Float64("tick_rate", cfg.Sim.TickRate),
	)

	if cfg.Spectator.Enabled {
		g.spectator = network.NewSpectator(log)
		grp.Go(func() error { return g.spectator.ListenAndServe(gctx, cfg.Spectator.Addr) })
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	runErr := ebiten.RunGame(g)
	cancel()

	if err := grp.Wait(); err != nil {
		return err
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		return errors.Wrap(runErr, "run game")
	}
	log.Info("session ended", zap.Uint64("ticks", g.engine.World.TickCount))
	return nil
}

func newGame(ctx context.Context, cfg config.Config, log *zap.Logger) *Game {
	eng := game.New(cfg, log)
	cx, cy := cfg.World.Width/2, cfg.World.Height/2
	eng.SpawnPlayer(cx, cy)
	eng.SpawnNPC("Trader", cx+80, cy-40,
		[]string{"Fresh potions, fair prices.", "Slimes have been restless lately."},
		[]core.ShopItem{{Name: "potion", Price: 10}, {Name: "ether", Price: 15}},
	)
	eng.Populate(cfg.World.TargetEnemies)
	eng.StartMaintenance()

	g := &Game{
		ctx:      ctx,
		cfg:      cfg,
		log:      log,
		engine:   eng,
		renderer: render.NewRenderer(render.NewSpriteManager("", log)),
		hud:      ui.NewHUD(cfg.Window.Width, cfg.Window.Height),
		menu:     ui.NewPauseMenu(cfg.Window.Width, cfg.Window.Height),
		input:    input.NewInputState(),
	}

	if cfg.Audio.Enabled {
		g.audio = audio.NewAudioManager(ebitenaudio.NewContext(cfg.Audio.SampleRate), cfg.Audio.Volume, cfg.Audio.Range, log)
		g.audio.Attach(eng.World)
	}

	g.menu.OnResume = eng.Loop.Play
	g.menu.OnQuit = func() { g.terminated = true }
	g.menu.OnToggleCollider = func() { g.renderer.ShowColliders = !g.renderer.ShowColliders }
	g.menu.OnToggleVolume = func() {
		if g.audio == nil {
			return
		}
		g.muted = !g.muted
		if g.muted {
			g.audio.SetVolume(0)
		} else {
			g.audio.SetVolume(cfg.Audio.Volume)
		}
	}
	return g
}

func (g *Game) Update() error {
	if g.terminated || g.ctx.Err() != nil {
		return ebiten.Termination
	}
	now := time.Now()
	if g.lastFrame.IsZero() {
		g.lastFrame = now
	}
	frame := now.Sub(g.lastFrame)
	g.lastFrame = now

	g.input.Update()
	if g.input.PauseJustPressed {
		g.engine.Loop.TogglePause()
	}
	if g.input.HelpJustPressed {
		g.hud.ShowHelp = !g.hud.ShowHelp
	}
	if g.input.DebugJustPressed {
		g.renderer.ShowColliders = !g.renderer.ShowColliders
	}

	paused := g.engine.Loop.State == core.StatePaused
	if paused {
		g.menu.Update(g.input.MouseX, g.input.MouseY, g.input.LeftJustPressed)
	}
	g.input.Apply(g.engine, paused)
	g.engine.Update(frame.Seconds())

	if g.audio != nil {
		if p := g.engine.World.Entity(g.engine.Player); p != nil {
			g.audio.SetListener(p.Transform().X, p.Transform().Y)
		}
	}
	g.feedSpectators(frame)
	return nil
}

func (g *Game) feedSpectators(frame time.Duration) {
	if g.spectator == nil {
		return
	}
	g.sinceFeed += frame
	if g.sinceFeed < g.cfg.Spectator.Interval {
		return
	}
	g.sinceFeed = 0
	if _, err := g.spectator.Broadcast(g.engine.Snapshot()); err != nil {
		g.log.Warn("spectator broadcast failed", zap.Error(err))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.engine)
	g.hud.Draw(screen, g.engine)
	if g.engine.Loop.State == core.StatePaused {
		g.menu.Draw(screen)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}
