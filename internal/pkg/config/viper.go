package config

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides: OTPKIT_LOG_LEVEL sets
// log.level.
const EnvPrefix = "OTPKIT"

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// NewViper reads defaults of the given type ("yaml", "json", "toml"), merges
// the optional file at pathFile over them and enables environment overrides.
func NewViper(configType string, defaults []byte, pathFile string) (*Viper, error) {
	vc, err := NewViperFromBytes(configType, defaults)
	if err != nil {
		return nil, err
	}

	if pathFile != "" {
		vc.v.SetConfigFile(pathFile)
		if err := vc.v.MergeInConfig(); err != nil {
			return nil, err
		}
	}

	vc.v.SetEnvPrefix(EnvPrefix)
	vc.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vc.v.AutomaticEnv()

	return vc, nil
}

// NewViperFromBytes loads configuration from memory.
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("config type is required")
	}

	v := viper.New()
	v.SetConfigType(configType)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

func (vc *Viper) GetInt(key string) int {
	return vc.v.GetInt(key)
}

func (vc *Viper) GetUint(key string) uint {
	return vc.v.GetUint(key)
}

func (vc *Viper) GetFloat64(key string) float64 {
	return vc.v.GetFloat64(key)
}

func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

func (vc *Viper) GetDuration(key string) time.Duration {
	switch vc.v.Get(key).(type) {
	case int, int64, uint, uint64, float64:
		return time.Duration(vc.v.GetInt64(key)) * time.Second
	case nil:
		return 0
	default:
		return vc.v.GetDuration(key)
	}
}

func (vc *Viper) GetArray(key string) []string {
	values := vc.v.GetStringSlice(key)
	if len(values) == 1 && strings.Contains(values[0], ",") {
		values = strings.Split(values[0], ",")
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Close implements io.Closer; viper holds no resources.
func (*Viper) Close() error {
	return nil
}
