package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadOverrides reads an override mapping from a YAML file of flat
// "option: value" pairs. Scalar values of any YAML type are accepted and
// converted to their string form; the returned map is meant for Resolve.
func LoadOverrides(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrConfiguration, path, err)
	}
	return ParseOverrides(data)
}

// ParseOverrides decodes YAML override data. See LoadOverrides.
func ParseOverrides(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse overrides: %v", ErrConfiguration, err)
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = val
		case int:
			out[k] = strconv.Itoa(val)
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		default:
			return nil, fmt.Errorf("%w: option %s must be a scalar, got %T", ErrConfiguration, k, v)
		}
	}
	return out, nil
}
