package compat

import (
	"fmt"
	"strconv"
	"strings"
)

type v struct {
	major uint16
	minor uint8
	patch uint8
}

// Returns <0 if "a < b"
// Returns 0 if "a == b"
// Returns >0 if "a > b"
func compareVersions(a v, b []int) int {
	diff := int(a.major)
	if len(b) > 0 {
		diff -= b[0]
	}
	if diff == 0 {
		diff = int(a.minor)
		if len(b) > 1 {
			diff -= b[1]
		}
	}
	if diff == 0 {
		diff = int(a.patch)
		if len(b) > 2 {
			diff -= b[2]
		}
	}
	return diff
}

// The start is inclusive and the end is exclusive. A zero end means the
// feature is still supported.
type versionRange struct {
	start v
	end   v
}

func isVersionSupported(ranges []versionRange, version []int) bool {
	for _, r := range ranges {
		if compareVersions(r.start, version) <= 0 && (r.end == (v{}) || compareVersions(r.end, version) > 0) {
			return true
		}
	}
	return false
}

type Engine uint8

const (
	Chrome Engine = iota
	Edge
	ES
	Electron
	Firefox
	IE
	IOS
	Node
	Opera
	Safari
	Samsung
)

var engineNames = map[Engine]string{
	Chrome:   "chrome",
	Edge:     "edge",
	ES:       "es",
	Electron: "electron",
	Firefox:  "firefox",
	IE:       "ie",
	IOS:      "ios",
	Node:     "node",
	Opera:    "opera",
	Safari:   "safari",
	Samsung:  "samsung",
}

func (e Engine) String() string {
	if name, ok := engineNames[e]; ok {
		return name
	}
	return ""
}

func EngineFromName(name string) (Engine, bool) {
	for engine, text := range engineNames {
		if text == name {
			return engine, true
		}
	}
	return 0, false
}

// Parses a comma-separated list of targets such as "chrome58,node6.5" into a
// map from engine to minimum version. "esnext" adds no constraint.
func ParseTarget(text string) (map[Engine][]int, error) {
	constraints := make(map[Engine][]int)
	for _, part := range strings.Split(text, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" || part == "esnext" {
			continue
		}

		split := strings.IndexAny(part, "0123456789")
		if split <= 0 {
			return nil, fmt.Errorf("Invalid target %q", part)
		}
		engine, ok := EngineFromName(part[:split])
		if !ok {
			return nil, fmt.Errorf("Unsupported engine %q in target %q", part[:split], part)
		}

		var version []int
		for _, component := range strings.Split(part[split:], ".") {
			n, err := strconv.Atoi(component)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("Invalid version %q in target %q", part[split:], part)
			}
			version = append(version, n)
		}
		constraints[engine] = version
	}
	return constraints, nil
}

// Renders a constraint map back into target syntax with engines sorted by
// name, which is handy for diagnostics
func TargetString(constraints map[Engine][]int) string {
	var parts []string
	for engine := Chrome; engine <= Samsung; engine++ {
		version, ok := constraints[engine]
		if !ok {
			continue
		}
		components := make([]string, len(version))
		for i, n := range version {
			components[i] = strconv.Itoa(n)
		}
		parts = append(parts, engine.String()+strings.Join(components, "."))
	}
	return strings.Join(parts, ",")
}
