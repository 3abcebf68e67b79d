package config

import (
	"fmt"
	"strings"

	"github.com/hoistjs/hoist/internal/compat"
)

type Format uint8

const (
	// The CommonJS format looks like this:
	//
	//   var { $b$exports } = require("./b.js");
	//   ... hoisted code ...
	//   exports.foo = foo;
	//
	FormatCommonJS Format = iota

	// The ES module format looks like this:
	//
	//   import { $b$exports } from "./b.js";
	//   ... hoisted code ...
	//   export { foo };
	//
	FormatESModule

	// The global format registers every asset other bundles need in a shared
	// runtime registry and looks like this:
	//
	//   var $b$exports = hoistRequire("b");
	//   ... hoisted code ...
	//   hoistRequire.register("a", $a$exports);
	//
	FormatGlobal
)

func (f Format) String() string {
	switch f {
	case FormatCommonJS:
		return "commonjs"
	case FormatESModule:
		return "esmodule"
	case FormatGlobal:
		return "global"
	}
	return "unknown"
}

func ParseFormat(text string) (Format, error) {
	switch strings.ToLower(text) {
	case "commonjs", "cjs":
		return FormatCommonJS, nil
	case "esmodule", "esm":
		return FormatESModule, nil
	case "global":
		return FormatGlobal, nil
	}
	return 0, fmt.Errorf("Invalid output format %q (valid: commonjs, esmodule, global)", text)
}

type Context uint8

const (
	ContextBrowser Context = iota
	ContextWebWorker
	ContextServiceWorker
	ContextNode
	ContextElectronMain
	ContextElectronRenderer
)

var contextNames = []string{
	ContextBrowser:          "browser",
	ContextWebWorker:        "web-worker",
	ContextServiceWorker:    "service-worker",
	ContextNode:             "node",
	ContextElectronMain:     "electron-main",
	ContextElectronRenderer: "electron-renderer",
}

func (c Context) String() string {
	if int(c) < len(contextNames) {
		return contextNames[c]
	}
	return "unknown"
}

func ParseContext(text string) (Context, error) {
	if text == "" {
		return ContextBrowser, nil
	}
	for i, name := range contextNames {
		if name == text {
			return Context(i), nil
		}
	}
	return 0, fmt.Errorf("Invalid context %q", text)
}

// Where a bundle runs and what it may assume about the engine running it
type Environment struct {
	Context      Context
	OutputFormat Format

	// Minimum engine versions. An empty map means "modern enough for
	// anything".
	Engines map[compat.Engine][]int

	// Set for bundles that run in their own global scope, like an iframe
	// sandbox, even though their context is not a worker
	Isolated bool
}

func (env Environment) IsWorker() bool {
	return env.Context == ContextWebWorker || env.Context == ContextServiceWorker
}

// Isolated bundles cannot share a module registry with the page that
// loaded them
func (env Environment) IsIsolated() bool {
	return env.IsWorker() || env.Isolated
}

func (env Environment) Supports(feature compat.JSFeature) bool {
	return !compat.UnsupportedJSFeatures(env.Engines).Has(feature)
}

type Options struct {
	// Paths in diagnostics are shown relative to this directory
	Cwd string
}
