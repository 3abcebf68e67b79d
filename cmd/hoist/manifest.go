package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hoistjs/hoist/internal/config"
	"github.com/hoistjs/hoist/pkg/api"
)

// The manifest is how a bundler hands its bundle graph to this tool. It is
// JSON shaped like this:
//
//	{
//	  "bundles": [{
//	    "id": "main",
//	    "filePath": "dist/main.js",
//	    "format": "esmodule",
//	    "contentsFile": "merged/main.js",
//	    "assets": [{ "id": "a", "filePath": "src/index.js", "isEntry": true,
//	      "exportedSymbols": [{ "name": "foo", "symbol": "$a$export$foo" }] }],
//	    "mainEntry": "a",
//	    "imports": [{ "bundle": "shared", "assets": ["b"] }],
//	    "externals": [{ "source": "react", "specifiers": [{ "imported": "*", "local": "React" }] }]
//	  }]
//	}
type manifest struct {
	Cwd     string           `json:"cwd"`
	Bundles []manifestBundle `json:"bundles"`
}

type manifestBundle struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	FilePath string `json:"filePath"`
	Format   string `json:"format"`
	Context  string `json:"context"`
	Target   string `json:"target"`
	Isolated bool   `json:"isolated"`

	// Exactly one of these holds the merged program
	Contents     *string `json:"contents"`
	ContentsFile string  `json:"contentsFile"`

	Assets           []manifestAsset    `json:"assets"`
	MainEntry        string             `json:"mainEntry"`
	Parents          []string           `json:"parents"`
	Siblings         []string           `json:"siblings"`
	Imports          []manifestImport   `json:"imports"`
	Externals        []manifestExternal `json:"externals"`
	ReferencedAssets []string           `json:"referencedAssets"`
	Replacements     map[string]string  `json:"replacements"`
}

type manifestAsset struct {
	ID                string           `json:"id"`
	FilePath          string           `json:"filePath"`
	ExportsIdentifier string           `json:"exportsIdentifier"`
	IsCommonJS        bool             `json:"isCommonJS"`
	IsEntry           bool             `json:"isEntry"`
	IsIsolated        bool             `json:"isIsolated"`
	ExportedSymbols   []manifestSymbol `json:"exportedSymbols"`
}

type manifestSymbol struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Asset  string `json:"asset"`
}

type manifestImport struct {
	Bundle string   `json:"bundle"`
	Assets []string `json:"assets"`
}

type manifestExternal struct {
	Source     string `json:"source"`
	IsCommonJS bool   `json:"isCommonJS"`
	Specifiers []struct {
		Imported string `json:"imported"`
		Local    string `json:"local"`
	} `json:"specifiers"`
}

// Settings from the command line that apply to bundles whose manifest entry
// leaves them out
type manifestDefaults struct {
	format string
	target string

	// Relative "contentsFile" paths are resolved from here
	dir string
}

func parseManifest(contents []byte, defaults manifestDefaults) (options api.LinkOptions, err error) {
	var m manifest
	if err := json.Unmarshal(contents, &m); err != nil {
		return api.LinkOptions{}, fmt.Errorf("Invalid manifest: %s", err.Error())
	}

	options.Cwd = m.Cwd
	if options.Cwd != "" && !filepath.IsAbs(options.Cwd) {
		options.Cwd = filepath.Join(defaults.dir, options.Cwd)
	}

	for _, b := range m.Bundles {
		bundle, err := convertBundle(b, defaults)
		if err != nil {
			return api.LinkOptions{}, err
		}
		options.Bundles = append(options.Bundles, bundle)
	}
	return options, nil
}

func convertBundle(b manifestBundle, defaults manifestDefaults) (api.Bundle, error) {
	if b.ID == "" {
		return api.Bundle{}, fmt.Errorf("Bundle is missing an \"id\"")
	}

	formatText := b.Format
	if formatText == "" {
		formatText = defaults.format
	}
	format, err := parseFormat(formatText)
	if err != nil {
		return api.Bundle{}, fmt.Errorf("Bundle %q: %s", b.ID, err.Error())
	}

	context, err := config.ParseContext(b.Context)
	if err != nil {
		return api.Bundle{}, fmt.Errorf("Bundle %q: %s", b.ID, err.Error())
	}

	target := b.Target
	if target == "" {
		target = defaults.target
	}

	var contents string
	switch {
	case b.Contents != nil && b.ContentsFile != "":
		return api.Bundle{}, fmt.Errorf("Bundle %q cannot have both \"contents\" and \"contentsFile\"", b.ID)
	case b.Contents != nil:
		contents = *b.Contents
	case b.ContentsFile != "":
		path := b.ContentsFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(defaults.dir, path)
		}
		bytes, err := os.ReadFile(path)
		if err != nil {
			return api.Bundle{}, fmt.Errorf("Could not read contents of bundle %q: %s", b.ID, err.Error())
		}
		contents = string(bytes)
	default:
		return api.Bundle{}, fmt.Errorf("Bundle %q needs \"contents\" or \"contentsFile\"", b.ID)
	}

	bundle := api.Bundle{
		ID:               b.ID,
		Type:             b.Type,
		FilePath:         b.FilePath,
		Format:           format,
		Context:          publicContext(context),
		Target:           target,
		Isolated:         b.Isolated,
		Contents:         contents,
		MainEntry:        b.MainEntry,
		Parents:          b.Parents,
		Siblings:         b.Siblings,
		ReferencedAssets: b.ReferencedAssets,
		Replacements:     b.Replacements,
	}
	if bundle.FilePath == "" {
		bundle.FilePath = b.ID + ".js"
	}

	for _, a := range b.Assets {
		asset := api.Asset{
			ID:                a.ID,
			FilePath:          a.FilePath,
			ExportsIdentifier: a.ExportsIdentifier,
			IsCommonJS:        a.IsCommonJS,
			IsEntry:           a.IsEntry,
			IsIsolated:        a.IsIsolated,
		}
		for _, s := range a.ExportedSymbols {
			asset.ExportedSymbols = append(asset.ExportedSymbols, api.ExportedSymbol{Name: s.Name, Symbol: s.Symbol, Asset: s.Asset})
		}
		bundle.Assets = append(bundle.Assets, asset)
	}

	for _, i := range b.Imports {
		bundle.Imports = append(bundle.Imports, api.BundleImport{Bundle: i.Bundle, Assets: i.Assets})
	}

	for _, e := range b.Externals {
		external := api.ExternalImport{Source: e.Source, IsCommonJS: e.IsCommonJS}
		for _, s := range e.Specifiers {
			external.Specifiers = append(external.Specifiers, api.ExternalSpecifier{Imported: s.Imported, Local: s.Local})
		}
		bundle.Externals = append(bundle.Externals, external)
	}

	return bundle, nil
}

func parseFormat(text string) (api.Format, error) {
	format, err := config.ParseFormat(text)
	if err != nil {
		return 0, err
	}
	switch format {
	case config.FormatESModule:
		return api.FormatESModule, nil
	case config.FormatGlobal:
		return api.FormatGlobal, nil
	}
	return api.FormatCommonJS, nil
}

func publicContext(context config.Context) api.Context {
	switch context {
	case config.ContextWebWorker:
		return api.ContextWebWorker
	case config.ContextServiceWorker:
		return api.ContextServiceWorker
	case config.ContextNode:
		return api.ContextNode
	case config.ContextElectronMain:
		return api.ContextElectronMain
	case config.ContextElectronRenderer:
		return api.ContextElectronRenderer
	}
	return api.ContextBrowser
}
