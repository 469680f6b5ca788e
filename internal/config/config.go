// Package config loads and resolves the runtime configuration: a YAML file
// under the user's config directory, created with embedded defaults on
// first run, plus a small set of CLI flags with environment-variable
// fallbacks. The resolved Config is an immutable value handed to the
// worker, the reducer, and the renderer at construction time; nothing
// reads configuration through a global.
package config

import (
	_ "embed"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/CPT-Dawn/VoidLink/internal/logging"
	"github.com/CPT-Dawn/VoidLink/internal/term"
)

//go:embed default_config.yaml
var defaultConfigYAML []byte

// SortMode selects the device list ordering; cyclable at runtime.
type SortMode int

const (
	SortDefault SortMode = iota // connection/pairing tier, then RSSI
	SortName
	SortRssi
	SortAddress
)

// Next advances through the fixed sort ring.
func (m SortMode) Next() SortMode {
	switch m {
	case SortDefault:
		return SortName
	case SortName:
		return SortRssi
	case SortRssi:
		return SortAddress
	default:
		return SortDefault
	}
}

// Label returns the status-bar name of the mode.
func (m SortMode) Label() string {
	switch m {
	case SortName:
		return "Name"
	case SortRssi:
		return "RSSI"
	case SortAddress:
		return "Address"
	default:
		return "Default"
	}
}

// SearchMode selects how the search query matches devices.
type SearchMode int

const (
	// SearchSmart treats queries starting with "/" as regex, everything
	// else as a plain substring.
	SearchSmart SearchMode = iota
	SearchPlain
	SearchRegex
)

// Config is the fully resolved runtime configuration. All numeric values
// are clamped at load time; consumers never re-validate.
type Config struct {
	General       General
	Bluetooth     Bluetooth
	Notifications Notifications
	Theme         Theme
	Keys          Keybindings

	LogFile string
	Trace   bool
}

type General struct {
	TickRate           time.Duration
	ScanOnStartup      bool
	HideUnnamedDevices bool
	DeviceListPercent  int
	SortMode           SortMode
	SearchMode         SearchMode
}

type Bluetooth struct {
	AutoTrustOnPair   bool
	ConnectionTimeout time.Duration
}

type Notifications struct {
	SuccessDuration time.Duration
	ErrorDuration   time.Duration
	SlideSpeed      float64
}

// Theme carries the palette as validated hex strings; the theme package
// turns them into styles.
type Theme struct {
	Palette Palette
}

type Palette struct {
	AccentPrimary   string
	AccentSecondary string
	AccentError     string
	TextPrimary     string
	TextDim         string
	Paired          string
	Success         string
	Scanning        string
	BorderInactive  string
}

// Keybindings is the resolved key table. Unknown names in the file resolve
// to an unbound key and are logged, never fatal.
type Keybindings struct {
	Quit          term.Key
	NavDown       term.Key
	NavUp         term.Key
	JumpTop       term.Key
	JumpBottom    term.Key
	Search        term.Key
	Help          term.Key
	ToggleAdapter term.Key
	ToggleScan    term.Key
	ConnectToggle term.Key
	Disconnect    term.Key
	Pair          term.Key
	Trust         term.Key
	Remove        term.Key
	Refresh       term.Key
	CycleSort     term.Key
	Rename        term.Key
}

// raw YAML structures.

type rawConfig struct {
	General       rawGeneral       `yaml:"general"`
	Bluetooth     rawBluetooth     `yaml:"bluetooth"`
	Notifications rawNotifications `yaml:"notifications"`
	Theme         rawTheme         `yaml:"theme"`
	Keybindings   rawKeybindings   `yaml:"keybindings"`
}

type rawGeneral struct {
	TickRateMs         int    `yaml:"tick_rate_ms"`
	ScanOnStartup      bool   `yaml:"scan_on_startup"`
	HideUnnamedDevices bool   `yaml:"hide_unnamed_devices"`
	DeviceListPercent  int    `yaml:"device_list_percent"`
	SortMode           string `yaml:"sort_mode"`
	SearchMode         string `yaml:"search_mode"`
}

type rawBluetooth struct {
	AutoTrustOnPair       bool `yaml:"auto_trust_on_pair"`
	ConnectionTimeoutSecs int  `yaml:"connection_timeout_secs"`
}

type rawNotifications struct {
	SuccessDurationMs int     `yaml:"success_duration_ms"`
	ErrorDurationMs   int     `yaml:"error_duration_ms"`
	SlideSpeed        float64 `yaml:"slide_speed"`
}

type rawTheme struct {
	Palette rawPalette `yaml:"palette"`
}

type rawPalette struct {
	AccentPrimary   string `yaml:"accent_primary"`
	AccentSecondary string `yaml:"accent_secondary"`
	AccentError     string `yaml:"accent_error"`
	TextPrimary     string `yaml:"text_primary"`
	TextDim         string `yaml:"text_dim"`
	Paired          string `yaml:"paired"`
	Success         string `yaml:"success"`
	Scanning        string `yaml:"scanning"`
	BorderInactive  string `yaml:"border_inactive"`
}

type rawKeybindings struct {
	Quit          string `yaml:"quit"`
	NavDown       string `yaml:"nav_down"`
	NavUp         string `yaml:"nav_up"`
	JumpTop       string `yaml:"jump_top"`
	JumpBottom    string `yaml:"jump_bottom"`
	Search        string `yaml:"search"`
	Help          string `yaml:"help"`
	ToggleAdapter string `yaml:"toggle_adapter"`
	ToggleScan    string `yaml:"toggle_scan"`
	ConnectToggle string `yaml:"connect_toggle"`
	Disconnect    string `yaml:"disconnect"`
	Pair          string `yaml:"pair"`
	Trust         string `yaml:"trust"`
	Remove        string `yaml:"remove"`
	Refresh       string `yaml:"refresh"`
	CycleSort     string `yaml:"cycle_sort"`
	Rename        string `yaml:"rename"`
}

const (
	envConfigPath = "VOIDLINK_CONFIG"
	envLogFile    = "VOIDLINK_LOG_FILE"
	envTrace      = "VOIDLINK_TRACE"
)

// Load parses CLI arguments, environment variables, and the user config
// file. Flags win over environment variables.
func Load() (*Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (*Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("voidlink", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	configPath := fs.String("config", envOrDefault(env, envConfigPath, ""), "path to the config file (defaults to the XDG config dir)")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	path := *configPath
	if path == "" {
		path = defaultConfigPath()
	}
	raw, err := loadRaw(path)
	if err != nil {
		return nil, err
	}

	cfg := resolve(raw)
	cfg.LogFile = *logFile
	cfg.Trace = *trace
	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "voidlink", "config.yaml")
	}
	return filepath.Join(".config", "voidlink", "config.yaml")
}

// loadRaw reads the user file, writing the embedded defaults first when it
// does not exist. Any parse or read failure falls back to the defaults;
// a broken config file must not prevent startup.
func loadRaw(path string) (rawConfig, error) {
	var defaults rawConfig
	if err := yaml.Unmarshal(defaultConfigYAML, &defaults); err != nil {
		return rawConfig{}, fmt.Errorf("parse embedded defaults: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			_ = os.WriteFile(path, defaultConfigYAML, 0o644)
		}
		return defaults, nil
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		logging.Warn("cannot read %s: %v, falling back to defaults", path, err)
		return defaults, nil
	}
	parsed := defaults
	if err := yaml.Unmarshal(contents, &parsed); err != nil {
		logging.Warn("parse error in %s: %v, falling back to defaults", path, err)
		return defaults, nil
	}
	return parsed, nil
}

func resolve(raw rawConfig) *Config {
	return &Config{
		General: General{
			TickRate:           time.Duration(clamp(raw.General.TickRateMs, 4, 200)) * time.Millisecond,
			ScanOnStartup:      raw.General.ScanOnStartup,
			HideUnnamedDevices: raw.General.HideUnnamedDevices,
			DeviceListPercent:  clamp(raw.General.DeviceListPercent, 20, 80),
			SortMode:           parseSortMode(raw.General.SortMode),
			SearchMode:         parseSearchMode(raw.General.SearchMode),
		},
		Bluetooth: Bluetooth{
			AutoTrustOnPair:   raw.Bluetooth.AutoTrustOnPair,
			ConnectionTimeout: time.Duration(clamp(raw.Bluetooth.ConnectionTimeoutSecs, 5, 120)) * time.Second,
		},
		Notifications: Notifications{
			SuccessDuration: time.Duration(clamp(raw.Notifications.SuccessDurationMs, 500, 30_000)) * time.Millisecond,
			ErrorDuration:   time.Duration(clamp(raw.Notifications.ErrorDurationMs, 500, 60_000)) * time.Millisecond,
			SlideSpeed:      clampFloat(raw.Notifications.SlideSpeed, 0.01, 1.0),
		},
		Theme: Theme{
			Palette: Palette{
				AccentPrimary:   hexOr(raw.Theme.Palette.AccentPrimary, "#00E5FF"),
				AccentSecondary: hexOr(raw.Theme.Palette.AccentSecondary, "#BB86FC"),
				AccentError:     hexOr(raw.Theme.Palette.AccentError, "#FF4545"),
				TextPrimary:     hexOr(raw.Theme.Palette.TextPrimary, "#E8E6F0"),
				TextDim:         hexOr(raw.Theme.Palette.TextDim, "#6B6F85"),
				Paired:          hexOr(raw.Theme.Palette.Paired, "#FFB74D"),
				Success:         hexOr(raw.Theme.Palette.Success, "#69F0AE"),
				Scanning:        hexOr(raw.Theme.Palette.Scanning, "#18FFFF"),
				BorderInactive:  hexOr(raw.Theme.Palette.BorderInactive, "#4A4E69"),
			},
		},
		Keys: Keybindings{
			Quit:          parseKey(raw.Keybindings.Quit),
			NavDown:       parseKey(raw.Keybindings.NavDown),
			NavUp:         parseKey(raw.Keybindings.NavUp),
			JumpTop:       parseKey(raw.Keybindings.JumpTop),
			JumpBottom:    parseKey(raw.Keybindings.JumpBottom),
			Search:        parseKey(raw.Keybindings.Search),
			Help:          parseKey(raw.Keybindings.Help),
			ToggleAdapter: parseKey(raw.Keybindings.ToggleAdapter),
			ToggleScan:    parseKey(raw.Keybindings.ToggleScan),
			ConnectToggle: parseKey(raw.Keybindings.ConnectToggle),
			Disconnect:    parseKey(raw.Keybindings.Disconnect),
			Pair:          parseKey(raw.Keybindings.Pair),
			Trust:         parseKey(raw.Keybindings.Trust),
			Remove:        parseKey(raw.Keybindings.Remove),
			Refresh:       parseKey(raw.Keybindings.Refresh),
			CycleSort:     parseKey(raw.Keybindings.CycleSort),
			Rename:        parseKey(raw.Keybindings.Rename),
		},
	}
}

func parseSortMode(s string) SortMode {
	switch s {
	case "name":
		return SortName
	case "rssi":
		return SortRssi
	case "address":
		return SortAddress
	default:
		return SortDefault
	}
}

func parseSearchMode(s string) SearchMode {
	switch s {
	case "plain":
		return SearchPlain
	case "regex":
		return SearchRegex
	default:
		return SearchSmart
	}
}

func parseKey(s string) term.Key {
	key, ok := term.ParseKey(s)
	if !ok {
		logging.Warn("unknown keybinding %q in config, ignoring", s)
		return term.Key{}
	}
	return key
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// hexOr validates a #RRGGBB string, substituting the fallback for anything
// malformed.
func hexOr(s, fallback string) string {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return fallback
	}
	for i := 0; i < 6; i++ {
		c := hex[i]
		ok := c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
		if !ok {
			return fallback
		}
	}
	return "#" + strings.ToUpper(hex)
}
