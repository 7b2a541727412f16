package entry

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// dockerfileRoots extracts CMD and ENTRYPOINT commands. Both the exec form
// (JSON array) and the shell form are handled; line continuations are folded
// first.
func (d *Detector) dockerfileRoots(rel string) []Root {
	data := d.readOther(rel)
	if data == nil {
		return nil
	}

	var roots []Root
	for _, command := range dockerfileCommands(data) {
		for _, root := range d.commandRoots(rel, command) {
			root.Reason = ReasonContainer
			roots = append(roots, root)
		}
	}
	return roots
}

func dockerfileCommands(data []byte) []string {
	var commands []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	pending := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, "\\") {
			pending += strings.TrimSuffix(line, "\\") + " "
			continue
		}
		line = pending + line
		pending = ""

		upper := strings.ToUpper(line)
		var rest string
		switch {
		case strings.HasPrefix(upper, "CMD "):
			rest = strings.TrimSpace(line[4:])
		case strings.HasPrefix(upper, "ENTRYPOINT "):
			rest = strings.TrimSpace(line[11:])
		default:
			continue
		}

		if strings.HasPrefix(rest, "[") {
			var parts []string
			if err := json.Unmarshal([]byte(rest), &parts); err == nil {
				commands = append(commands, strings.Join(parts, " "))
				continue
			}
		}
		commands = append(commands, rest)
	}
	return commands
}

// composeService carries the two keys the detector cares about. command and
// entrypoint accept both a string and a list in compose files.
type composeService struct {
	Command    composeCommand `yaml:"command"`
	Entrypoint composeCommand `yaml:"entrypoint"`
}

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
}

type composeCommand []string

func (c *composeCommand) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*c = strings.Fields(value.Value)
	case yaml.SequenceNode:
		var parts []string
		if err := value.Decode(&parts); err != nil {
			return err
		}
		*c = parts
	}
	return nil
}

func (d *Detector) composeRoots(rel string) []Root {
	data := d.readOther(rel)
	if data == nil {
		return nil
	}
	var file composeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		slog.Warn("malformed compose file", "path", rel, "err", err)
		return nil
	}

	var roots []Root
	for _, name := range sortedServiceNames(file.Services) {
		svc := file.Services[name]
		for _, command := range [][]string{svc.Command, svc.Entrypoint} {
			if len(command) == 0 {
				continue
			}
			for _, root := range d.commandRoots(rel, strings.Join(command, " ")) {
				root.Reason = ReasonContainer
				roots = append(roots, root)
			}
		}
	}
	return roots
}

func sortedServiceNames(services map[string]composeService) []string {
	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
