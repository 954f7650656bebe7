package common

import (
	"errors"
	"flag"
	"fmt"
	"runtime"
	"strings"
	"time"
)

type Params struct {
	configFile         string
	logLevel           string
	cacheDir           string
	thumbnailSize      int
	format             string
	animatedThumbnails bool
	workers            int
	frameDelay         time.Duration
	resizeFilter       string
	thumbnailMode      bool
	recursive          bool
	stdin              bool
	watch              bool
	render             string
	rotate             int
	flip               bool
	pause              bool
	files              []string
}

func NewEmptyParams() *Params {
	return &Params{
		logLevel:           DefaultLogLevel,
		thumbnailSize:      DefaultThumbnailSize,
		format:             DefaultFormat,
		animatedThumbnails: true,
		workers:            1,
		frameDelay:         DefaultFrameDelay,
		resizeFilter:       DefaultResizeFilter,
		files:              []string{},
	}
}

// ParseParams parses command line arguments. Values from the config file are
// used for every option that was not given explicitly on the command line.
func ParseParams(args []string) (*Params, error) {
	flags := flag.NewFlagSet("image-viewer", flag.ContinueOnError)
	configFile := flags.String("config", "", "Config file. Defaults to $XDG_CONFIG_HOME/image-viewer/config.toml")
	logLevel := flags.String("logLevel", DefaultLogLevel, "Log level: ERROR, WARN, INFO, DEBUG, TRACE")
	cacheDir := flags.String("cacheDir", "", "Thumbnail cache directory. Defaults to $XDG_CACHE_HOME/image-viewer")
	thumbnailSize := flags.Int("thumbnailSize", DefaultThumbnailSize, "Length of the longer thumbnail side in pixels")
	format := flags.String("format", DefaultFormat, "Thumbnail format: png, jpeg or gif")
	animatedThumbnails := flags.Bool("animatedThumbnails", true, "Keep animated sources animated in the thumbnail cache")
	workers := flags.Int("workers", runtime.NumCPU(), "Number of thumbnail workers")
	frameDelay := flags.Duration("frameDelay", DefaultFrameDelay, "Delay used for animation frames without a declared duration")
	resizeFilter := flags.String("resizeFilter", DefaultResizeFilter, "Thumbnail resize filter: nearest, box, linear, gaussian, catmullrom or lanczos")
	thumbnailMode := flags.Bool("thumbnail", false, "Start in thumbnail mode")
	recursive := flags.Bool("recursive", false, "Search for images in directories recursively")
	stdin := flags.Bool("stdin", false, "Read names of files to open from standard input")
	watch := flags.Bool("watch", false, "Keep running and refresh thumbnails of changed files")
	render := flags.String("render", "", "Render the first image at full resolution into this PNG file")
	rotate := flags.Int("rotate", 0, "Rotation in degrees used with -render")
	flip := flags.Bool("flip", false, "Flip horizontally with -render")
	pause := flags.Bool("pause", false, "Start animations paused")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	explicit := map[string]bool{}
	flags.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})

	params := &Params{
		configFile:         *configFile,
		logLevel:           *logLevel,
		cacheDir:           *cacheDir,
		thumbnailSize:      *thumbnailSize,
		format:             strings.ToLower(*format),
		animatedThumbnails: *animatedThumbnails,
		workers:            *workers,
		frameDelay:         *frameDelay,
		resizeFilter:       strings.ToLower(*resizeFilter),
		thumbnailMode:      *thumbnailMode,
		recursive:          *recursive,
		stdin:              *stdin,
		watch:              *watch,
		render:             *render,
		rotate:             *rotate,
		flip:               *flip,
		pause:              *pause,
		files:              flags.Args(),
	}

	configPath, required := params.configFile, true
	if configPath == "" {
		configPath, _ = DefaultConfigPath()
		required = false
	}
	config, err := LoadConfig(configPath, required)
	if err != nil {
		return nil, fmt.Errorf("could not load config '%s': %w", configPath, err)
	}
	params.ApplyConfig(config, explicit)

	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// ApplyConfig copies config values for options not in explicit.
func (s *Params) ApplyConfig(config *Config, explicit map[string]bool) {
	if config.LogLevel != "" && !explicit["logLevel"] {
		s.logLevel = config.LogLevel
	}
	if config.CacheDir != "" && !explicit["cacheDir"] {
		s.cacheDir = config.CacheDir
	}
	if config.ThumbnailSize != 0 && !explicit["thumbnailSize"] {
		s.thumbnailSize = config.ThumbnailSize
	}
	if config.Format != "" && !explicit["format"] {
		s.format = strings.ToLower(config.Format)
	}
	if config.AnimatedThumbnails != nil && !explicit["animatedThumbnails"] {
		s.animatedThumbnails = *config.AnimatedThumbnails
	}
	if config.Workers != 0 && !explicit["workers"] {
		s.workers = config.Workers
	}
	if config.FrameDelayMs != 0 && !explicit["frameDelay"] {
		s.frameDelay = time.Duration(config.FrameDelayMs) * time.Millisecond
	}
	if config.ResizeFilter != "" && !explicit["resizeFilter"] {
		s.resizeFilter = strings.ToLower(config.ResizeFilter)
	}
}

func (s *Params) Validate() error {
	if s.thumbnailSize <= 0 {
		return errors.New("thumbnail size must be positive")
	}
	if s.workers <= 0 {
		return errors.New("worker count must be positive")
	}
	if s.frameDelay <= 0 {
		return errors.New("frame delay must be positive")
	}
	return nil
}

func (s *Params) ConfigFile() string {
	return s.configFile
}

func (s *Params) LogLevel() string {
	return s.logLevel
}

func (s *Params) CacheDir() string {
	return s.cacheDir
}

func (s *Params) ThumbnailSize() int {
	return s.thumbnailSize
}

func (s *Params) Format() string {
	return s.format
}

func (s *Params) AnimatedThumbnails() bool {
	return s.animatedThumbnails
}

func (s *Params) Workers() int {
	return s.workers
}

func (s *Params) FrameDelay() time.Duration {
	return s.frameDelay
}

func (s *Params) ResizeFilter() string {
	return s.resizeFilter
}

func (s *Params) ThumbnailMode() bool {
	return s.thumbnailMode
}

func (s *Params) Recursive() bool {
	return s.recursive
}

func (s *Params) Stdin() bool {
	return s.stdin
}

func (s *Params) Watch() bool {
	return s.watch
}

func (s *Params) Render() string {
	return s.render
}

func (s *Params) Rotate() int {
	return s.rotate
}

func (s *Params) Flip() bool {
	return s.flip
}

func (s *Params) Pause() bool {
	return s.pause
}

func (s *Params) Files() []string {
	return s.files
}
