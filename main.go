// Package main provides the entry point for the morsetone CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/morsetone/morse"
	"github.com/dgnsrekt/morsetone/morse/audio"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile   string
	textType     string
	modification string
	waveType     string
	additions    string
	speed        float64
	minSpeed     float64
	maxSpeed     float64
	window       int
	frequency    int
	volume       float64
	delay        int
	durationOnly bool
	debug        bool

	keyword = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#ECFD65"}).
		Render
	paragraph = lipgloss.NewStyle().
			Width(78).
			Padding(0, 0, 0, 2).
			Render

	rootCmd = &cobra.Command{
		Use:   "morsetone [text]",
		Short: "Play text as audible Morse code",
		Long: paragraph(
			fmt.Sprintf("\nTurn text into %s: harmonic tones, speed ramps, training and competition preambles.", keyword("audible Morse code")),
		),
		SilenceErrors: false,
		SilenceUsage:  true,
		Args:          cobra.MaximumNArgs(1),
		Example:       "morsetone \"CQ CQ DE K1ABC\"\nmorsetone --wave sine --frequency 600 PARIS\nmorsetone --modification speedup --min-speed 80 --max-speed 120 \"SLOW TO FAST\"",
		RunE:          execute,
	}
)

// loadConfig layers configuration: env defaults, then the config file,
// then any flag explicitly set on the command line.
func loadConfig(cmd *cobra.Command, args []string) (morse.Config, error) {
	cfg, err := env.ParseAs[morse.Config]()
	if err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}

	if err := readConfigFile(&cfg); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("min-speed") {
		cfg.MinSpeed = minSpeed
	}
	if flags.Changed("max-speed") {
		cfg.MaxSpeed = maxSpeed
	}
	if flags.Changed("window") {
		cfg.WindowLength = window
	}
	if flags.Changed("frequency") {
		cfg.Frequency = frequency
	}
	if flags.Changed("volume") {
		cfg.Volume = volume
	}
	if flags.Changed("delay") {
		cfg.Delay = delay
	}
	if flags.Changed("text-type") {
		if cfg.TextType, err = morse.ParseTextType(textType); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("modification") {
		if cfg.Modification, err = morse.ParseSpeedModification(modification); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("wave") {
		if cfg.Wave, err = morse.ParseWaveType(waveType); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("additions") {
		if cfg.Additions, err = morse.ParseTextAdditions(additions); err != nil {
			return cfg, err
		}
	}
	if len(args) == 1 {
		cfg.Text = args[0]
	}

	return cfg, nil
}

// readConfigFile merges an optional YAML config file into cfg. A
// missing default config file is fine; a missing explicit one is not.
func readConfigFile(cfg *morse.Config) error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("morsetone")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(dir + "/morsetone")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && (errors.As(err, &notFound) || os.IsNotExist(err)) {
			return nil
		}
		if configFile == "" {
			log.Warn("could not parse configuration file", "err", err)
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	log.Debug("using configuration file", "path", viper.ConfigFileUsed())

	var err error
	if viper.IsSet("text") {
		cfg.Text = viper.GetString("text")
	}
	if viper.IsSet("speed") {
		cfg.Speed = viper.GetFloat64("speed")
	}
	if viper.IsSet("min_speed") {
		cfg.MinSpeed = viper.GetFloat64("min_speed")
	}
	if viper.IsSet("max_speed") {
		cfg.MaxSpeed = viper.GetFloat64("max_speed")
	}
	if viper.IsSet("window") {
		cfg.WindowLength = viper.GetInt("window")
	}
	if viper.IsSet("frequency") {
		cfg.Frequency = viper.GetInt("frequency")
	}
	if viper.IsSet("volume") {
		cfg.Volume = viper.GetFloat64("volume")
	}
	if viper.IsSet("delay") {
		cfg.Delay = viper.GetInt("delay")
	}
	if viper.IsSet("text_type") {
		if cfg.TextType, err = morse.ParseTextType(viper.GetString("text_type")); err != nil {
			return err
		}
	}
	if viper.IsSet("modification") {
		if cfg.Modification, err = morse.ParseSpeedModification(viper.GetString("modification")); err != nil {
			return err
		}
	}
	if viper.IsSet("wave") {
		if cfg.Wave, err = morse.ParseWaveType(viper.GetString("wave")); err != nil {
			return err
		}
	}
	if viper.IsSet("additions") {
		if cfg.Additions, err = morse.ParseTextAdditions(viper.GetString("additions")); err != nil {
			return err
		}
	}
	return nil
}

func execute(cmd *cobra.Command, args []string) error {
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Text) == "" {
		return morse.ErrNoText
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if durationOnly {
		return printDurations(cfg)
	}

	device, err := audio.NewDevice(morse.SampleRate)
	if err != nil {
		return err
	}
	defer device.Close() //nolint:errcheck

	player, err := morse.NewPlayer(cfg, device)
	if err != nil {
		return err
	}
	player.OnMainTextStarted(func() {
		log.Info("main text started")
	})
	player.OnPlaybackEnded(func() {
		log.Info("playback ended")
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	log.Info("playing",
		"text", cfg.Text,
		"speed", cfg.Speed,
		"wave", cfg.Wave,
		"duration", (player.StartPartDuration() + player.TextDuration()).Round(time.Millisecond))

	return player.Play(ctx)
}

// printDurations reports timing without touching the audio device.
func printDurations(cfg morse.Config) error {
	table := morse.DefaultTimingTable()
	table.SetDelay(cfg.Delay)
	profile, sequence := morse.Encode(cfg.Text, morse.EncodeOptions{
		Modification: cfg.Modification,
		MinSpeed:     cfg.MinSpeed,
		MaxSpeed:     cfg.MaxSpeed,
		WindowLength: cfg.WindowLength,
	})
	total, checkpoints := morse.ComputeTiming(sequence, table, cfg.TextType, cfg.Speed, profile)

	fmt.Printf("text duration: %s\n", total.Round(time.Millisecond))
	fmt.Printf("boundaries: %d\n", len(checkpoints)-1)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()
	rootCmd.AddCommand(configCmd)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default morsetone.yaml)")
	rootCmd.Flags().Float64Var(&speed, "speed", 100, "playback speed, 100 = reference")
	rootCmd.Flags().Float64Var(&minSpeed, "min-speed", 100, "lower speed-ramp bound")
	rootCmd.Flags().Float64Var(&maxSpeed, "max-speed", 110, "upper speed-ramp bound")
	rootCmd.Flags().IntVar(&window, "window", 10, "speed-ramp window length in characters")
	rootCmd.Flags().StringVar(&textType, "text-type", "letters", "text type: letters, digits or mixed")
	rootCmd.Flags().StringVar(&modification, "modification", "none", "speed ramp: none, speedup, slowing or zigzag")
	rootCmd.Flags().StringVarP(&waveType, "wave", "W", "square", "wave type: square, sine, triangle or sawtooth")
	rootCmd.Flags().StringVarP(&additions, "additions", "a", "training", "preamble mode: none, training or competitions")
	rootCmd.Flags().IntVarP(&frequency, "frequency", "f", 750, "tone frequency in Hz")
	rootCmd.Flags().Float64VarP(&volume, "volume", "v", 0.5, "output volume, 0.0 to 1.0")
	rootCmd.Flags().IntVar(&delay, "delay", 3, "character-gap length in dot units")
	rootCmd.Flags().BoolVar(&durationOnly, "duration", false, "print timing and exit without playing")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
}
