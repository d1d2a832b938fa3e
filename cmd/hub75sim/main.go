package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ledworks/hub75core/internal/config"
	"github.com/ledworks/hub75core/internal/hub75"
	"github.com/ledworks/hub75core/internal/led"
	"github.com/ledworks/hub75core/internal/memory"
	"github.com/ledworks/hub75core/internal/panelview"
	"github.com/ledworks/hub75core/internal/pattern"
	"github.com/ledworks/hub75core/internal/ws"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		addr       = flag.String("addr", "", "websocket listen address (overrides config)")
		patName    = flag.String("pattern", "", "test pattern (overrides config)")
		indexed    = flag.Bool("indexed", false, "force indexed framebuffer mode")
		latency    = flag.Int("latency", 4, "memory read latency in ticks")
		maxFPS     = flag.Int("max-fps", 30, "preview frame rate cap")
		useGPIO    = flag.Bool("gpio", false, "mirror pins to real GPIO (linux)")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	cfg := config.Default()
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
	} else {
		cfg = c
	}
	if *addr != "" {
		cfg.Preview.Addr = *addr
	}
	if *patName != "" {
		cfg.Pattern = *patName
	}
	if *indexed {
		cfg.Indexed = true
	}

	geom := cfg.Hub75Geometry()
	vw, vh := cfg.VirtualWidth(), cfg.VirtualHeight()

	ram := make([]uint32, int(cfg.FBBase)+vw*vh)
	port, err := memory.NewPort(ram, *latency)
	if err != nil {
		log.Fatal().Err(err).Msg("read port")
	}

	regs := hub75.NewRegisters(geom.ChainLength)
	palette := &hub75.Palette{}
	if err := cfg.Apply(regs); err != nil {
		log.Fatal().Err(err).Msg("bad panel layout")
	}
	if err := fillFramebuffer(ram, cfg, palette); err != nil {
		log.Fatal().Err(err).Str("pattern", cfg.Pattern).Msg("pattern")
	}

	ctl, err := hub75.New(geom, regs, palette, port, cfg.Prescale)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline")
	}
	panel, err := panelview.New(geom, cfg.Prescale)
	if err != nil {
		log.Fatal().Err(err).Msg("panel model")
	}

	var sink led.Sink
	if *useGPIO && cfg.GPIO.Enabled {
		g, err := led.NewGPIO(led.PinNames{
			Clk: cfg.GPIO.Clk, Lat: cfg.GPIO.Lat, OE: cfg.GPIO.OE,
			R0: cfg.GPIO.R0, G0: cfg.GPIO.G0, B0: cfg.GPIO.B0,
			R1: cfg.GPIO.R1, G1: cfg.GPIO.G1, B1: cfg.GPIO.B1,
		})
		if err != nil {
			log.Warn().Err(err).Msg("gpio sink unavailable; preview only")
		} else {
			sink = g
			defer g.Close()
		}
	}

	// Either the composed canvas or one raw output channel goes out over the
	// preview feed.
	pw, ph := vw, vh
	if !cfg.Preview.Compose {
		if cfg.Preview.Channel < 0 || cfg.Preview.Channel >= hub75.NumOutputs {
			log.Fatal().Int("channel", cfg.Preview.Channel).Msg("preview channel out of range")
		}
		pw, ph = panel.Size()
	}
	state := ws.NewState(pw, ph)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", state.HandleFramesWS)
	mux.HandleFunc("/health", state.HandleHealth)

	srv := &http.Server{
		Addr:         cfg.Preview.Addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	regs.Ctrl.Enabled = true
	log.Info().
		Int("columns", geom.Columns).Int("rows", geom.Rows).
		Int("scan", geom.Scan).Int("chain", geom.ChainLength).
		Str("pattern", cfg.Pattern).Bool("indexed", cfg.Indexed).
		Msg("pipeline enabled")

	stop := make(chan struct{})
	go runLoop(ctl, panel, regs, cfg, state, sink, vw, vh, *maxFPS, stop)
	go func() {
		log.Info().Str("addr", cfg.Preview.Addr).Msg("preview server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("preview server crashed")
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")
	close(stop)
	_ = srv.Close()
}

// runLoop steps the pipeline until one full BCM frame has been exposed,
// publishes the reconstruction, and paces itself to the frame cap.
func runLoop(ctl *hub75.Controller, panel *panelview.Panel, regs *hub75.Registers,
	cfg *config.Config, state *ws.State, sink led.Sink, vw, vh, maxFPS int, stop chan struct{}) {
	minFrame := time.Second / time.Duration(max(1, maxFPS))
	frames := 0
	lastLog := time.Now()
	for {
		select {
		case <-stop:
			return
		default:
		}
		frameStart := time.Now()
		for panel.Latches() < panel.FrameLatches() {
			ctl.Tick()
			panel.Observe(ctl.Pins())
			if sink != nil {
				_ = sink.Write(ctl.Pins())
			}
		}
		if cfg.Preview.Compose {
			state.Broadcast(panel.Compose(regs, vw, vh))
		} else {
			state.Broadcast(panel.ChannelImage(cfg.Preview.Channel))
		}
		panel.Reset()
		frames++
		if time.Since(lastLog) > 10*time.Second {
			log.Info().Int("frames", frames).Uint64("ticks", ctl.Ticks()).Msg("running")
			lastLog = time.Now()
		}
		if d := minFrame - time.Since(frameStart); d > 0 {
			time.Sleep(d)
		}
	}
}

// fillFramebuffer renders the configured pattern into RAM, programming the
// palette first when indexed mode is on.
func fillFramebuffer(ram []uint32, cfg *config.Config, palette *hub75.Palette) error {
	vw, vh := cfg.VirtualWidth(), cfg.VirtualHeight()
	var words []uint32
	if cfg.Indexed {
		indices, pal, err := pattern.GenerateIndexed(cfg.Pattern, vw, vh)
		if err != nil {
			return err
		}
		for i, w := range pal {
			palette.Write(uint8(i), w)
		}
		words = indices
	} else {
		var err error
		words, err = pattern.Generate(cfg.Pattern, vw, vh)
		if err != nil {
			return err
		}
	}
	copy(ram[cfg.FBBase:], words)
	return nil
}
