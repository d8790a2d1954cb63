package styledb

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/npillmayer/cssengine/value"
	"gopkg.in/yaml.v3"
)

// Metrics are font metrics, as ratios of the font size.
type Metrics struct {
	Ex  float64 `yaml:"ex"`
	Ch  float64 `yaml:"ch"`
	Ic  float64 `yaml:"ic"`
	Cap float64 `yaml:"cap"`
}

// Device describes the output device.
type Device struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Unit   string  `yaml:"unit"`
}

// Config is the YAML configuration of a static style database:
//
//	medium: screen
//	device: { width: 1280, height: 720, unit: px }
//	fonts:
//	  default: { medium: 12, large: 14 }
//	  monospace: { medium: 10 }
//	metrics:
//	  default: { ex: 0.5, ch: 0.5, ic: 1.0, cap: 0.7 }
//	env:
//	  safe-area-inset-top: 0px
type Config struct {
	Medium  string                        `yaml:"medium"`
	Device  Device                        `yaml:"device"`
	Fonts   map[string]map[string]float64 `yaml:"fonts"`
	Metrics map[string]Metrics            `yaml:"metrics"`
	Env     map[string]string             `yaml:"env"`
}

// Static is a Database driven by tables and ratios.
type Static struct {
	conf Config
	env  map[string]value.Value
}

var _ Database = (*Static)(nil)

// DefaultMetrics are the metrics assumed for fonts without configuration.
var DefaultMetrics = Metrics{Ex: 0.5, Ch: 0.5, Ic: 1.0, Cap: 0.7}

// Default returns a static database with built-in values: a 1280×720px screen
// and the default font-size table.
func Default() *Static {
	db, _ := New(Config{})
	return db
}

// New creates a static database from a configuration. Missing entries are
// filled with defaults.
func New(conf Config) (*Static, error) {
	if conf.Medium == "" {
		conf.Medium = "screen"
	}
	if conf.Device.Width <= 0 || conf.Device.Height <= 0 {
		vp := DefaultViewport(conf.Medium)
		conf.Device = Device{Width: vp.Width, Height: vp.Height, Unit: "pt"}
	}
	if conf.Device.Unit == "" {
		conf.Device.Unit = "px"
	}
	if _, ok := value.ParseUnit(conf.Device.Unit); !ok {
		return nil, fmt.Errorf("styledb: unknown device unit %q", conf.Device.Unit)
	}
	db := &Static{conf: conf, env: make(map[string]value.Value, len(conf.Env))}
	for name, text := range conf.Env {
		v, err := value.FromText(text)
		if err != nil {
			return nil, fmt.Errorf("styledb: env %s: %w", name, err)
		}
		db.env[name] = v
	}
	return db, nil
}

// Load reads a YAML configuration. An empty input yields the defaults.
func Load(r io.Reader) (*Static, error) {
	var conf Config
	if err := yaml.NewDecoder(r).Decode(&conf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("styledb: %w", err)
	}
	tracer().Debugf("loaded style database for medium %q", conf.Medium)
	return New(conf)
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// FontSizeFromIdentifier maps a font-size keyword to points. Families without
// an entry fall back to the "default" table, then to DefaultFontSizes.
func (db *Static) FontSizeFromIdentifier(family, keyword string) (float64, bool) {
	for _, fam := range []string{strings.ToLower(family), "default"} {
		if table, ok := db.conf.Fonts[fam]; ok {
			if size, ok := table[keyword]; ok {
				return size, true
			}
		}
	}
	if keyword == "xxx-large" {
		return DefaultXXXLarge, true
	}
	if i, ok := KeywordIndex(keyword); ok {
		return DefaultFontSizes[i], true
	}
	return 0, false
}

func (db *Static) metrics(family string) Metrics {
	m, ok := db.conf.Metrics[strings.ToLower(family)]
	if !ok {
		m, ok = db.conf.Metrics["default"]
	}
	if !ok {
		return DefaultMetrics
	}
	if m.Ex <= 0 {
		m.Ex = DefaultMetrics.Ex
	}
	if m.Ch <= 0 {
		m.Ch = DefaultMetrics.Ch
	}
	if m.Ic <= 0 {
		m.Ic = DefaultMetrics.Ic
	}
	if m.Cap <= 0 {
		m.Cap = DefaultMetrics.Cap
	}
	return m
}

// ExSizeInPt returns the x-height of a font at a given size.
func (db *Static) ExSizeInPt(family string, size float64) float64 {
	return db.metrics(family).Ex * size
}

// StringWidth estimates the advance width of a text. Wide (CJK) characters
// advance by the 'ic' ratio, all others by the 'ch' ratio.
func (db *Static) StringWidth(text string, style TextStyle) float64 {
	m := db.metrics(style.Family)
	w := 0.0
	for _, r := range text {
		if isWide(r) {
			w += m.Ic
		} else {
			w += m.Ch
		}
	}
	return w * style.Size
}

func isWide(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}

// CapHeight returns the cap height of a font.
func (db *Static) CapHeight(style TextStyle) float64 {
	return db.metrics(style.Family).Cap * style.Size
}

// DeviceWidth returns the width of the output device in its natural unit.
func (db *Static) DeviceWidth() (float64, value.Unit) {
	u, _ := value.ParseUnit(db.conf.Device.Unit)
	return db.conf.Device.Width, u
}

// DeviceHeight returns the height of the output device in its natural unit.
func (db *Static) DeviceHeight() (float64, value.Unit) {
	u, _ := value.ParseUnit(db.conf.Device.Unit)
	return db.conf.Device.Height, u
}

// EnvValue returns a configured environment variable.
func (db *Static) EnvValue(name string) (value.Value, bool) {
	v, ok := db.env[name]
	return v, ok
}

// Medium returns the target medium.
func (db *Static) Medium() string {
	return db.conf.Medium
}
