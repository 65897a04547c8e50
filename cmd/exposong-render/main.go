package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	theme "github.com/exposong/exposong-theme"
	"github.com/exposong/exposong-theme/pres"
)

var (
	configPath string
	themePath  string
	presPath   string
	outPattern string
	width      int
	height     int
	format     string
	fontDirs   []string
	themesDir  string
	imageDir   string
	logLevel   string
	watch      bool
)

var rootCmd = &cobra.Command{
	Use:           "exposong-render",
	Short:         "exposong-render - render presentations through ExpoSong themes",
	Long:          "exposong-render draws text presentations through ExpoSong theme files and writes one image per slide.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render every slide of a presentation to an image",
	RunE:  runRender,
}

var validateCmd = &cobra.Command{
	Use:   "validate THEME...",
	Short: "Check theme files for problems",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "exposong-render %s\n", theme.Version)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate FILE",
	Short: "Write a config file with the default settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return SaveConfig(args[0], DefaultConfig())
	},
}

func init() {
	rootCmd.Version = theme.Version
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	f := renderCmd.Flags()
	f.StringVar(&themePath, "theme", "", "Theme XML file")
	f.StringVar(&presPath, "pres", "", "Presentation XML file")
	f.StringVarP(&outPattern, "out", "o", "", `Output file pattern with %d for the slide number (default "slide_%02d.png")`)
	f.IntVar(&width, "width", 0, "Output width in pixels")
	f.IntVar(&height, "height", 0, "Output height in pixels")
	f.StringVar(&format, "format", "", "Output format: png or jpeg")
	f.StringArrayVar(&fontDirs, "font-dir", nil, "Additional font directory (repeatable)")
	f.StringVar(&themesDir, "themes-dir", "", "Directory of custom themes referenced by slides")
	f.StringVar(&imageDir, "image-dir", "", "Directory for relative slide image sources")
	f.BoolVar(&watch, "watch", false, "Re-render when the theme file changes")
	_ = renderCmd.MarkFlagRequired("theme")
	_ = renderCmd.MarkFlagRequired("pres")

	configCmd.AddCommand(configGenerateCmd)
	rootCmd.AddCommand(renderCmd, validateCmd, configCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies explicitly set flags.
func loadConfig(cmd *cobra.Command) (Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("format") {
		cfg.Format = format
	}
	if flags.Changed("font-dir") {
		cfg.FontDirs = append(cfg.FontDirs, fontDirs...)
	}
	if flags.Changed("themes-dir") {
		cfg.ThemesDir = themesDir
	}
	if flags.Changed("image-dir") {
		cfg.ImageDir = imageDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return Config{}, fmt.Errorf("log level: %w", err)
	}
	theme.SetLogger(theme.Logger().Level(lvl))
	return cfg, nil
}

func renderOptions(cfg Config) (*theme.RenderOptions, error) {
	opts := theme.DefaultRenderOptions()
	opts.Width, opts.Height, opts.JPEGQuality = cfg.Width, cfg.Height, cfg.JPEGQuality
	switch strings.ToLower(cfg.Format) {
	case "png":
		opts.Format = theme.ImageFormatPNG
	case "jpeg", "jpg":
		opts.Format = theme.ImageFormatJPEG
	default:
		return nil, fmt.Errorf("unsupported format %q", cfg.Format)
	}
	return opts, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ropts, err := renderOptions(cfg)
	if err != nil {
		return err
	}
	if outPattern == "" {
		outPattern = "slide_%02d.png"
		if ropts.Format == theme.ImageFormatJPEG {
			outPattern = "slide_%02d.jpg"
		}
	}

	opts := &theme.Options{
		DPI:         cfg.DPI,
		FontCache:   theme.NewFontCache(cfg.FontDirs...),
		ResourceDir: cfg.ResourceDir,
	}
	base, err := theme.Load(themePath, opts)
	if err != nil {
		return err
	}
	p, err := pres.Load(presPath, cfg.ImageDir)
	if err != nil {
		return err
	}

	r := &slideRenderer{base: base, opts: opts, ropts: ropts, themesDir: cfg.ThemesDir, custom: make(map[string]*theme.Theme)}
	if err := r.renderAll(p, outPattern); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", themePath)
	err = theme.Watch(ctx, themePath, opts, func(t *theme.Theme, err error) {
		if err != nil {
			theme.Logger().Error().Err(err).Msg("theme reload failed, keeping previous theme")
			return
		}
		r.setBase(t)
		if err := r.renderAll(p, outPattern); err != nil {
			theme.Logger().Error().Err(err).Msg("render failed")
		}
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// slideRenderer renders presentation slides, loading per-slide custom
// themes at most once.
type slideRenderer struct {
	base      *theme.Theme
	opts      *theme.Options
	ropts     *theme.RenderOptions
	themesDir string
	custom    map[string]*theme.Theme
}

// setBase replaces the presentation theme and forgets loaded custom themes,
// some of which may have fallen back to the previous base.
func (r *slideRenderer) setBase(t *theme.Theme) {
	r.base = t
	r.custom = make(map[string]*theme.Theme)
}

func (r *slideRenderer) themeFor(s *pres.Slide) *theme.Theme {
	path := pres.ThemeFor(s, r.themesDir)
	if path == "" {
		return r.base
	}
	if t, ok := r.custom[path]; ok {
		return t
	}
	t, err := theme.Load(path, r.opts)
	if err != nil {
		theme.Logger().Warn().Err(err).Str("theme", path).Msg("using presentation theme")
		t = r.base
	}
	r.custom[path] = t
	return t
}

func (r *slideRenderer) renderAll(p *pres.Presentation, pattern string) error {
	var total uint64
	slides := p.Ordered()
	for i, s := range slides {
		img, err := theme.RenderImage(r.themeFor(s), s, r.ropts)
		if err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
		path := fmt.Sprintf(pattern, i+1)
		if err := theme.SaveImage(img, path, r.ropts); err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
		if info, err := os.Stat(path); err == nil {
			total += uint64(info.Size())
		}
	}
	dir := filepath.Dir(fmt.Sprintf(pattern, 1))
	theme.Logger().Info().
		Int("slides", len(slides)).
		Str("dir", dir).
		Str("size", humanize.Bytes(total)).
		Msg("rendered presentation")
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	opts := &theme.Options{FontCache: theme.NewBuiltinFontCache()}
	failed := 0
	for _, path := range args {
		t, err := theme.Load(path, opts)
		if err == nil {
			err = t.Validate()
		}
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d themes failed validation", failed, len(args))
	}
	return nil
}
