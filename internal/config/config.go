// Package config loads the scenario configuration from defaults, an optional config
// file, and SCENARIO_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/star/scenario/internal/epoch"
	"github.com/star/scenario/internal/player"
	"github.com/star/scenario/internal/sim"
	"github.com/star/scenario/internal/validate"
)

// EnvPrefix prefixes every environment override, e.g. SCENARIO_DATA_FILE.
const EnvPrefix = "SCENARIO"

// MinStep is the smallest accepted log or record step.
const MinStep = time.Millisecond

// Scenario holds every recognized option of a replay scenario run.
type Scenario struct {
	DataFile       string        `mapstructure:"data_file"`       // trajectory table to replay
	OutputName     string        `mapstructure:"output_name"`     // basename of recorded output
	LogStep        time.Duration `mapstructure:"log_step"`        // task rate
	RecordStep     time.Duration `mapstructure:"record_step"`     // recorder interval, 0 = LogStep
	Epoch          string        `mapstructure:"epoch"`           // calendar time of t = 0
	Duration       time.Duration `mapstructure:"duration"`        // 0 = last sample + LogStep
	PlayerPriority int           `mapstructure:"player_priority"` // must exceed consumer priorities
	AccessFile     string        `mapstructure:"access_file"`     // optional time,flag series
	TargetFile     string        `mapstructure:"target_file"`     // optional second trajectory
	TimelinePNG    string        `mapstructure:"timeline_png"`    // optional access plot
	MetricsFile    string        `mapstructure:"metrics_file"`    // optional textfile export
	LogLevel       string        `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_file", "DRO.csv")
	v.SetDefault("output_name", "satellite_traj")
	v.SetDefault("log_step", time.Second)
	v.SetDefault("record_step", time.Duration(0))
	v.SetDefault("epoch", "2026 January 04 15:00:00.0")
	v.SetDefault("duration", time.Duration(0))
	v.SetDefault("player_priority", player.DefaultPriority)
	v.SetDefault("access_file", "")
	v.SetDefault("target_file", "")
	v.SetDefault("timeline_png", "")
	v.SetDefault("metrics_file", "")
	v.SetDefault("log_level", "info")
}

// Load builds a Scenario. configFile may be empty; its type is taken from the
// extension (toml, json, yaml).
func Load(configFile string) (Scenario, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Scenario{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Scenario
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		secondsHook(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hooks); err != nil {
		return Scenario{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.RecordStep == 0 {
		cfg.RecordStep = cfg.LogStep
	}
	if err := cfg.Validate(); err != nil {
		return Scenario{}, err
	}
	return cfg, nil
}

// Validate checks option ranges and that the epoch parses.
func (c Scenario) Validate() error {
	const op = "config.Validate"
	switch {
	case c.DataFile == "":
		return validate.Mismatch(op, "data_file", -1, "path", `""`)
	case c.LogStep < MinStep:
		return validate.Mismatch(op, "log_step", -1, ">= "+MinStep.String(), c.LogStep)
	case c.RecordStep < MinStep:
		return validate.Mismatch(op, "record_step", -1, ">= "+MinStep.String(), c.RecordStep)
	case c.Duration < 0:
		return validate.Mismatch(op, "duration", -1, ">= 0", c.Duration)
	case c.PlayerPriority <= sim.DefaultPriority:
		// Body and recorders sit at sim.DefaultPriority; a player at or below them
		// would be read one tick late.
		return validate.Mismatch(op, "player_priority", -1, fmt.Sprintf("> %d", sim.DefaultPriority), c.PlayerPriority)
	}
	if _, err := epoch.Parse(c.Epoch); err != nil {
		return validate.Mismatch(op, "epoch", -1, epoch.SpiceLayout, fmt.Sprintf("%q", c.Epoch))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return validate.Mismatch(op, "log_level", -1, "debug|info|warn|error", fmt.Sprintf("%q", c.LogLevel))
	}
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// secondsHook decodes durations. Plain numbers, and strings holding one, are seconds;
// other strings go through time.ParseDuration ("90s", "5m").
func secondsHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != durationType {
			return data, nil
		}
		switch v := data.(type) {
		case int:
			return seconds(float64(v))
		case int32:
			return seconds(float64(v))
		case int64:
			return seconds(float64(v))
		case uint64:
			return seconds(float64(v))
		case float32:
			return seconds(float64(v))
		case float64:
			return seconds(v)
		case string:
			v = strings.TrimSpace(v)
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return seconds(f)
			}
			return time.ParseDuration(v)
		}
		return data, nil
	}
}

func seconds(f float64) (time.Duration, error) {
	d := f * float64(time.Second)
	if math.IsNaN(d) || math.Abs(d) > math.MaxInt64 {
		return 0, fmt.Errorf("duration %g s out of range", f)
	}
	return time.Duration(math.Round(d)), nil
}

// Anchor returns the parsed epoch. Call after Validate.
func (c Scenario) Anchor() epoch.Anchor {
	a, _ := epoch.Parse(c.Epoch)
	return a
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}

// LogValue groups the scenario for structured logging.
func (c Scenario) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("data_file", c.DataFile),
		slog.String("output_name", c.OutputName),
		slog.Float64("log_step_seconds", c.LogStep.Seconds()),
		slog.Float64("record_step_seconds", c.RecordStep.Seconds()),
		slog.String("epoch", c.Epoch),
		slog.Float64("duration_seconds", c.Duration.Seconds()),
		slog.Int("player_priority", c.PlayerPriority),
		slog.String("access_file", c.AccessFile),
		slog.String("target_file", c.TargetFile),
	)
}
