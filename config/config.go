package config

import (
	"os"
	"strings"

	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"
	"github.com/ghodss/yaml"
	"github.com/spf13/afero"

	"github.com/eluv-io/seqdev-go/seq"
	"github.com/eluv-io/seqdev-go/util/codecutil"
	"github.com/eluv-io/seqdev-go/util/jsonutil"
)

var log = elog.Get("/eluvio/seqdev/config")

// Config is the configuration of a sequence device and its logging.
type Config struct {
	Device seq.Options  `json:"device"`
	Log    *elog.Config `json:"log"`
}

// Default returns the default configuration: the default device options and
// info-level text logging.
func Default() *Config {
	return &Config{
		Device: seq.DefaultOptions(),
		Log: &elog.Config{
			Level:   "info",
			Handler: "text",
		},
	}
}

// Load reads the YAML (or JSON) configuration file at the given path from fs.
// Settings missing in the file keep their default values.
func Load(fs afero.Fs, path string) (*Config, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		kind := errors.K.IO
		if os.IsNotExist(err) {
			kind = errors.K.NotExist
		}
		return nil, errors.E("config.Load", kind, err, "path", path)
	}

	c := Default()
	err = yaml.Unmarshal(b, c)
	if err != nil {
		return nil, errors.E("config.Load", errors.K.Invalid, err,
			"reason", "invalid config file",
			"path", path)
	}

	log.Debug("config loaded", "path", path, "config", jsonutil.Stringer(c))
	return c, nil
}

// Apply decodes the given generic map into the configuration. Values may be
// strings and are converted to the type of the target field.
func (c *Config) Apply(m map[string]interface{}) error {
	return codecutil.WeakMapDecode(m, c)
}

// Override applies "key=value" overrides where key is the dotted path of a
// configuration field, e.g. "device.end=100" or "log.level=debug".
func (c *Config) Override(overrides ...string) error {
	if len(overrides) == 0 {
		return nil
	}
	m, err := ParseOverrides(overrides...)
	if err != nil {
		return err
	}
	err = c.Apply(m)
	if err != nil {
		return errors.E("Config.Override", errors.K.Invalid, err, "overrides", overrides)
	}
	return nil
}

// ParseOverrides converts "a.b.c=value" pairs into a nested generic map.
func ParseOverrides(overrides ...string) (map[string]interface{}, error) {
	e := errors.Template("ParseOverrides", errors.K.Invalid)

	res := map[string]interface{}{}
	for _, o := range overrides {
		key, val, found := strings.Cut(o, "=")
		path := strings.Split(strings.TrimSpace(key), ".")
		if !found || key == "" {
			return nil, e("override", o, "reason", "expected key=value")
		}

		m := res
		for i, p := range path {
			if p == "" {
				return nil, e("override", o, "reason", "empty key segment")
			}
			if i == len(path)-1 {
				if _, isMap := m[p].(map[string]interface{}); isMap {
					return nil, e("override", o, "reason", "conflicting keys")
				}
				m[p] = val
				break
			}
			next, exists := m[p]
			if !exists {
				sub := map[string]interface{}{}
				m[p] = sub
				m = sub
				continue
			}
			sub, isMap := next.(map[string]interface{})
			if !isMap {
				return nil, e("override", o, "reason", "conflicting keys")
			}
			m = sub
		}
	}
	return res, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	return c.Device.Validate()
}

func (c *Config) String() string {
	return jsonutil.MarshalCompactString(c)
}
