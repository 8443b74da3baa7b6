package locator

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// Struct tag keys
	tagDefault = "default"
	tagDesc    = "desc" // Used for generating sample config and documentation
)

// ExpiredPolicy decides what Resolve does when an entry's reference has
// been torn down by the host.
type ExpiredPolicy string

const (
	// ExpiredRediscover purges the entry and tries host discovery before
	// reporting ErrServiceExpired.
	ExpiredRediscover ExpiredPolicy = "rediscover"

	// ExpiredFail purges the entry and reports ErrServiceExpired at once.
	ExpiredFail ExpiredPolicy = "fail"
)

// Config holds the container settings. Zero values are replaced by the
// `default` tags in ProcessConfigDefaults.
type Config struct {
	// ExpiredPolicy is "rediscover" or "fail".
	ExpiredPolicy ExpiredPolicy `yaml:"expired_policy" toml:"expired_policy" json:"expired_policy" env:"EXPIRED_POLICY" default:"rediscover" desc:"Behaviour when a registered reference has been destroyed (rediscover|fail)"`

	// DisableDiscovery turns host discovery off for every key.
	DisableDiscovery bool `yaml:"disable_discovery" toml:"disable_discovery" json:"disable_discovery" env:"DISABLE_DISCOVERY" desc:"Never fall back to host discovery on a miss"`

	// ExcludeInactive restricts interface scans to active host objects.
	ExcludeInactive bool `yaml:"exclude_inactive" toml:"exclude_inactive" json:"exclude_inactive" env:"EXCLUDE_INACTIVE" desc:"Skip inactive host objects during interface scans"`

	// SweepEveryTicks is the TickSweeper interval. Zero disables it.
	SweepEveryTicks int `yaml:"sweep_every_ticks" toml:"sweep_every_ticks" json:"sweep_every_ticks" env:"SWEEP_EVERY_TICKS" desc:"Purge dead entries every N host ticks (0 disables)"`

	// SweepSchedule is a standard cron expression for the cron sweeper.
	SweepSchedule string `yaml:"sweep_schedule" toml:"sweep_schedule" json:"sweep_schedule" env:"SWEEP_SCHEDULE" desc:"Cron expression for background sweeps (empty disables)"`

	// SourceName is the CloudEvents source attribute for emitted events.
	SourceName string `yaml:"source_name" toml:"source_name" json:"source_name" env:"SOURCE_NAME" default:"locator" desc:"CloudEvents source for container events"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	_ = ProcessConfigDefaults(cfg)
	return cfg
}

// Validate implements ConfigValidator.
func (c *Config) Validate() error {
	switch c.ExpiredPolicy {
	case ExpiredRediscover, ExpiredFail:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownExpiredPolicy, c.ExpiredPolicy)
	}
	if c.SweepEveryTicks < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeSweepInterval, c.SweepEveryTicks)
	}
	return nil
}

// ConfigValidator is implemented by config structs with validation rules
// beyond defaults.
type ConfigValidator interface {
	Validate() error
}

// ValidateConfig applies defaults and then runs the config's own Validate
// method when it has one.
func ValidateConfig(cfg any) error {
	if err := ProcessConfigDefaults(cfg); err != nil {
		return err
	}
	if v, ok := cfg.(ConfigValidator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}
	return nil
}

// ProcessConfigDefaults applies default values to a config struct based on struct tags.
// It looks for `default:"value"` tags on struct fields and sets the field value if currently zero/empty.
//
// Supported field types are strings (including named string types), bools,
// integers, floats and time.Duration.
func ProcessConfigDefaults(cfg any) error {
	if cfg == nil {
		return ErrConfigNil
	}

	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return ErrConfigNotPointer
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return ErrConfigNotStruct
	}

	return processStructDefaults(v)
}

func processStructDefaults(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := processStructDefaults(field); err != nil {
				return err
			}
			continue
		}

		defaultVal, hasDefault := fieldType.Tag.Lookup(tagDefault)
		if !hasDefault || !field.IsZero() {
			continue
		}

		if err := setDefaultValue(field, defaultVal); err != nil {
			return fmt.Errorf("failed to set default value for %s: %w", fieldType.Name, err)
		}
	}

	return nil
}

func setDefaultValue(field reflect.Value, defaultVal string) error {
	if field.Type() == reflect.TypeFor[time.Duration]() {
		d, err := time.ParseDuration(defaultVal)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDefaultValueParseError, err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() { //nolint:exhaustive // remaining kinds are unsupported
	case reflect.String:
		field.SetString(defaultVal)
	case reflect.Bool:
		b, err := strconv.ParseBool(defaultVal)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDefaultValueParseError, err)
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(defaultVal, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDefaultValueParseError, err)
		}
		field.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(defaultVal, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDefaultValueParseError, err)
		}
		field.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(defaultVal, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDefaultValueParseError, err)
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedTypeForDefault, field.Kind())
	}
	return nil
}

// GenerateSampleConfig renders a Config with defaults applied.
// The format parameter can be "yaml", "json", or "toml".
func GenerateSampleConfig(format string) ([]byte, error) {
	sample := DefaultConfig()

	switch strings.ToLower(format) {
	case "yaml", "yml":
		data, err := yaml.Marshal(sample)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal to YAML: %w", err)
		}
		return data, nil
	case "json":
		data, err := json.MarshalIndent(sample, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		return data, nil
	case "toml":
		var buf strings.Builder
		if err := toml.NewEncoder(&buf).Encode(sample); err != nil {
			return nil, fmt.Errorf("failed to marshal to TOML: %w", err)
		}
		return []byte(buf.String()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormatType, format)
	}
}

// ConfigFieldDocs returns the desc tag of every Config field keyed by its
// yaml name.
func ConfigFieldDocs() map[string]string {
	docs := make(map[string]string)
	t := reflect.TypeFor[Config]()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" {
			name = f.Name
		}
		docs[name] = f.Tag.Get(tagDesc)
	}
	return docs
}
