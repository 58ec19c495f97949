package remote

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultProfile names the built-in DiscoveryCommands battery.
const DefaultProfile = "default"

// LoadProfiles reads named command batteries from a JSON file shaped like
//
//	{"profiles": {"cisco-ios": {"commands": ["terminal length 0", "show version"]}}}
//
// Profiles with no commands are skipped.
func LoadProfiles(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid profile file %s", path)
	}

	profiles := make(map[string][]string)
	gjson.ParseBytes(data).Get("profiles").ForEach(func(key, value gjson.Result) bool {
		var commands []string
		value.Get("commands").ForEach(func(_, command gjson.Result) bool {
			if c := strings.TrimSpace(command.String()); c != "" {
				commands = append(commands, c)
			}
			return true
		})
		if len(commands) > 0 {
			profiles[strings.ToLower(key.String())] = commands
		}
		return true
	})
	return profiles, nil
}

// ResolveProfile returns the commands for name. An empty path or the default
// profile name yields DiscoveryCommands.
func ResolveProfile(path, name string) ([]string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if path == "" || name == "" || name == DefaultProfile {
		return DiscoveryCommands, nil
	}
	profiles, err := LoadProfiles(path)
	if err != nil {
		return nil, err
	}
	commands, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found in %s", name, path)
	}
	return commands, nil
}
