package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"DecodingDen/internal/audio"
	"DecodingDen/internal/audio/oto"
	"DecodingDen/internal/board"
	"DecodingDen/internal/config"
	"DecodingDen/internal/logging"
	dnet "DecodingDen/internal/net"
	"DecodingDen/internal/phoneme"
	"DecodingDen/internal/readalong"
	"DecodingDen/internal/state"
	"DecodingDen/internal/store"
	"DecodingDen/internal/ui"
)

var (
	configDir string
	logLevel  string

	cfg    config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "decodingden",
	Short: "Decoding Den whiteboard and phonics app",
	Long: `Decoding Den is a classroom whiteboard with phonics lessons,
read-along and word building.

Run without arguments to open the board and share it on the local network.
Students join with "decodingden join decodingden://host:port".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configDir)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logger = logging.New(cfg.LogLevel, os.Stderr)
		logging.Install(logger)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHost(cmd.Context())
	},
}

func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "DecodingDen")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", defaultConfigDir(), "directory holding "+config.FileName)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
	rootCmd.AddCommand(joinCmd, renderCmd, discoverCmd)
}

func main() {
	// Launched by the OS URL handler with the join link as the only argument.
	if len(os.Args) > 1 && strings.HasPrefix(os.Args[1], dnet.LinkScheme) {
		os.Args = append([]string{os.Args[0], "join"}, os.Args[1:]...)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStore opens the local database. The app runs without it, so a
// failure is logged rather than returned.
func openStore() *store.Store {
	path := cfg.StorePath
	if path != "" && !filepath.IsAbs(path) {
		if err := os.MkdirAll(configDir, 0o755); err == nil {
			path = filepath.Join(configDir, path)
		}
	}
	st, err := store.Open(path, logger)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("saved boards and offline lessons disabled")
		return nil
	}
	return st
}

func openAudio() *audio.Feedback {
	var sink audio.Sink
	if s, err := oto.NewSink(cfg.SampleRate); err != nil {
		logger.Debug().Err(err).Msg("running without sound")
	} else {
		sink = s
	}
	return audio.NewFeedback(sink, cfg.SampleRate, logger)
}

// appOptions wires the services shared by host and viewer windows.
func appOptions(b *board.Board, fb *audio.Feedback, st *store.Store) ui.Options {
	var cache phoneme.Cache
	if st != nil {
		cache = st
	}
	return ui.Options{
		Board:    b,
		Feedback: fb,
		Phonemes: phoneme.New(cfg.APIBaseURL, cfg.APITimeout, cache, logger),
		Store:    st,
		Speaker:  readalong.DetectSpeaker(cfg.WordsPerMinute, logging.Component(logger, "speech")),
		Fallback: readalong.TimedSpeaker{WordsPerMinute: cfg.WordsPerMinute},
		Log:      logger,
	}
}

func runHost(ctx context.Context) error {
	logger.Info().Msg("starting as host")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	st := openStore()
	if st != nil {
		defer st.Close()
	}
	fb := openAudio()
	defer fb.Close()

	b := board.New(cfg.BoardWidth, cfg.BoardHeight, board.WithSounds(fb), board.WithLogger(logger))
	opts := appOptions(b, fb, st)

	share := dnet.NewShareServer(b, logger)
	b.OnChange(share.Publish)
	served := make(chan struct{})
	go func() {
		defer close(served)
		if err := share.ListenAndServe(ctx, cfg.SharePort); err != nil {
			logger.Error().Err(err).Msg("board sharing stopped")
		}
	}()
	opts.ShareLink = dnet.JoinLink(dnet.OutgoingIP(), cfg.SharePort)
	opts.Viewers = share.Viewers

	if cfg.ShareAdvertise {
		adv, err := dnet.Advertise(cfg.SharePort, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("board will not be discoverable")
		} else {
			defer adv.Shutdown()
		}
	}

	logger.Info().Str("link", opts.ShareLink).Msg("join link")
	ui.Run(opts)
	cancel()
	<-served
	return nil
}

func runViewer(ctx context.Context, link string) error {
	addr, err := dnet.ParseLink(link)
	if err != nil {
		return err
	}
	logger.Info().Str("host", addr).Msg("starting as viewer")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	st := openStore()
	if st != nil {
		defer st.Close()
	}
	fb := openAudio()
	defer fb.Close()

	b := board.New(cfg.BoardWidth, cfg.BoardHeight, board.WithLogger(logger))
	opts := appOptions(b, fb, st)
	opts.ReadOnly = true
	opts.Title = "Decoding Den - " + addr

	viewer := dnet.NewViewer(addr, func(snap state.Snapshot) { b.Mirror(snap) }, logger)
	followed := make(chan struct{})
	opts.Start = func(u *ui.UI) {
		viewer.OnStatus = u.SetStatus
		go func() {
			defer close(followed)
			viewer.Follow(ctx)
		}()
	}

	ui.Run(opts)
	cancel()
	<-followed
	return nil
}
