package api

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/hoistjs/hoist/internal/compat"
	"github.com/hoistjs/hoist/internal/config"
	"github.com/hoistjs/hoist/internal/graph"
	"github.com/hoistjs/hoist/internal/js_ast"
	"github.com/hoistjs/hoist/internal/js_parser"
	"github.com/hoistjs/hoist/internal/js_printer"
	"github.com/hoistjs/hoist/internal/linker"
	"github.com/hoistjs/hoist/internal/logger"
	"github.com/hoistjs/hoist/internal/runtime"
	"go.uber.org/zap"
)

func validateColor(value StderrColor) logger.StderrColor {
	switch value {
	case ColorIfTerminal:
		return logger.ColorIfTerminal
	case ColorNever:
		return logger.ColorNever
	case ColorAlways:
		return logger.ColorAlways
	default:
		panic("Invalid color")
	}
}

func validateLogLevel(value LogLevel) logger.LogLevel {
	switch value {
	case LogLevelInfo:
		return logger.LevelInfo
	case LogLevelWarning:
		return logger.LevelWarning
	case LogLevelError:
		return logger.LevelError
	case LogLevelSilent:
		return logger.LevelSilent
	default:
		panic("Invalid log level")
	}
}

func validateFormat(value Format) config.Format {
	switch value {
	case FormatCommonJS:
		return config.FormatCommonJS
	case FormatESModule:
		return config.FormatESModule
	case FormatGlobal:
		return config.FormatGlobal
	default:
		panic("Invalid format")
	}
}

func validateContext(value Context) config.Context {
	switch value {
	case ContextBrowser:
		return config.ContextBrowser
	case ContextWebWorker:
		return config.ContextWebWorker
	case ContextServiceWorker:
		return config.ContextServiceWorker
	case ContextNode:
		return config.ContextNode
	case ContextElectronMain:
		return config.ContextElectronMain
	case ContextElectronRenderer:
		return config.ContextElectronRenderer
	default:
		panic("Invalid context")
	}
}

func validateTarget(log logger.Log, bundle string, text string) map[compat.Engine][]int {
	engines, err := compat.ParseTarget(text)
	if err != nil {
		log.AddMsg(logger.Msg{Kind: logger.Error, Text: err.Error(), Bundle: bundle})
		return nil
	}
	return engines
}

func convertMessagesToPublic(kind logger.MsgKind, msgs []logger.Msg) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind == kind {
			var location *Location
			if loc := msg.Location; loc != nil {
				location = &Location{
					File:     loc.File,
					Line:     loc.Line,
					Column:   loc.Column,
					Length:   loc.Length,
					LineText: loc.LineText,
				}
			}
			filtered = append(filtered, Message{
				Text:     msg.Text,
				Location: location,
				Bundle:   msg.Bundle,
			})
		}
	}
	return filtered
}

// Everything the linker needs for one bundle except the parsed program
type bundleJob struct {
	options   *Bundle
	bundle    *graph.Bundle
	imports   []linker.BundleImport
	externals []*graph.ExternalModule
	assets    []*graph.Asset
}

type graphBuilder struct {
	log     logger.Log
	graph   *graph.Graph
	bundles map[string]*graph.Bundle
	assets  map[string]*graph.Asset
}

func (b *graphBuilder) errorf(bundle string, format string, args ...interface{}) {
	b.log.AddMsg(logger.Msg{Kind: logger.Error, Text: fmt.Sprintf(format, args...), Bundle: bundle})
}

func (b *graphBuilder) lookupBundle(from string, id string) *graph.Bundle {
	if bundle, ok := b.bundles[id]; ok {
		return bundle
	}
	b.errorf(from, "Unknown bundle %q", id)
	return nil
}

func (b *graphBuilder) lookupAsset(from string, id string) *graph.Asset {
	if asset, ok := b.assets[id]; ok {
		return asset
	}
	b.errorf(from, "Unknown asset %q", id)
	return nil
}

// Converts the public description of the bundle graph into the form the
// linker reads. Errors are logged and the graph is unusable if there are any.
func buildGraph(log logger.Log, options *LinkOptions) (*graph.Graph, []bundleJob) {
	b := graphBuilder{
		log:     log,
		graph:   graph.NewGraph(),
		bundles: make(map[string]*graph.Bundle),
		assets:  make(map[string]*graph.Asset),
	}

	// Create every node first so that edges can point forward
	for i := range options.Bundles {
		o := &options.Bundles[i]
		if _, ok := b.bundles[o.ID]; ok {
			b.errorf(o.ID, "Duplicate bundle %q", o.ID)
			continue
		}
		bundleType := o.Type
		if bundleType == "" {
			bundleType = "js"
		}
		bundle := &graph.Bundle{
			ID:       o.ID,
			Type:     bundleType,
			FilePath: o.FilePath,
			Env: config.Environment{
				Context:      validateContext(o.Context),
				OutputFormat: validateFormat(o.Format),
				Engines:      validateTarget(log, o.ID, o.Target),
				Isolated:     o.Isolated,
			},
		}
		for _, a := range o.Assets {
			if _, ok := b.assets[a.ID]; ok {
				b.errorf(o.ID, "Duplicate asset %q", a.ID)
				continue
			}
			asset := &graph.Asset{
				ID:                a.ID,
				FilePath:          a.FilePath,
				ExportsIdentifier: a.ExportsIdentifier,
				IsCommonJS:        a.IsCommonJS,
				Meta:              graph.AssetMeta{IsEntry: a.IsEntry, IsIsolated: a.IsIsolated},
			}
			b.assets[a.ID] = asset
			bundle.Assets = append(bundle.Assets, asset)
		}
		b.bundles[o.ID] = bundle
		b.graph.AddBundle(bundle)
	}

	jobs := make([]bundleJob, 0, len(options.Bundles))
	for i := range options.Bundles {
		o := &options.Bundles[i]
		bundle := b.bundles[o.ID]
		job := bundleJob{options: o, bundle: bundle}

		if o.MainEntry != "" {
			bundle.MainEntry = b.lookupAsset(o.ID, o.MainEntry)
		}

		for _, a := range o.Assets {
			if len(a.ExportedSymbols) == 0 {
				continue
			}
			symbols := make([]graph.ExportedSymbol, 0, len(a.ExportedSymbols))
			for _, s := range a.ExportedSymbols {
				symbol := graph.ExportedSymbol{ExportSymbol: s.Name, Symbol: s.Symbol}
				if s.Asset != "" {
					symbol.Asset = b.lookupAsset(o.ID, s.Asset)
				}
				symbols = append(symbols, symbol)
			}
			if asset := b.assets[a.ID]; asset != nil {
				b.graph.SetExportedSymbols(asset, symbols)
			}
		}

		for _, id := range o.Parents {
			if parent := b.lookupBundle(o.ID, id); parent != nil {
				b.graph.AddChild(parent, bundle)
			}
		}

		// Sibling edges go both ways, so each pair is only added once
		for _, id := range o.Siblings {
			if sibling := b.lookupBundle(o.ID, id); sibling != nil && !containsBundle(b.graph.GetSiblingBundles(bundle), sibling) {
				b.graph.AddSibling(bundle, sibling)
			}
		}

		for _, imported := range o.Imports {
			from := b.lookupBundle(o.ID, imported.Bundle)
			item := linker.BundleImport{Bundle: from}
			for _, id := range imported.Assets {
				if asset := b.lookupAsset(o.ID, id); asset != nil {
					item.Assets = append(item.Assets, asset)
				}
			}
			job.imports = append(job.imports, item)
		}

		for _, e := range o.Externals {
			external := &graph.ExternalModule{Source: e.Source, IsCommonJS: e.IsCommonJS}
			for _, s := range e.Specifiers {
				if _, ok := external.Specifier(s.Imported); ok {
					b.errorf(o.ID, "Duplicate import of %q from %q", s.Imported, e.Source)
					continue
				}
				external.Specifiers = append(external.Specifiers, graph.ExternalSpecifier{Imported: s.Imported, Local: s.Local})
			}
			job.externals = append(job.externals, external)
		}

		for _, id := range o.ReferencedAssets {
			if asset := b.lookupAsset(o.ID, id); asset != nil {
				job.assets = append(job.assets, asset)
			}
		}

		jobs = append(jobs, job)
	}

	return b.graph, jobs
}

func containsBundle(bundles []*graph.Bundle, bundle *graph.Bundle) bool {
	for _, b := range bundles {
		if b == bundle {
			return true
		}
	}
	return false
}

func prettyPath(cwd string, path string) string {
	if cwd != "" {
		if rel, err := filepath.Rel(cwd, path); err == nil {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}

////////////////////////////////////////////////////////////////////////////////
// Link API

func linkImpl(options LinkOptions) LinkResult {
	var log logger.Log
	if options.LogLevel == LogLevelSilent {
		log = logger.NewDeferLog()
	} else {
		log = logger.NewStderrLog(logger.OutputOptions{
			IncludeSource: true,
			ErrorLimit:    options.ErrorLimit,
			Color:         validateColor(options.Color),
			LogLevel:      validateLogLevel(options.LogLevel),
		})
	}

	bundleGraph, jobs := buildGraph(log, &options)

	var outputFiles []OutputFile
	if !log.HasErrors() {
		outputFiles = linkBundles(log, &options, bundleGraph, jobs)
	}

	msgs := log.Done()
	return LinkResult{
		Errors:      convertMessagesToPublic(logger.Error, msgs),
		Warnings:    convertMessagesToPublic(logger.Warning, msgs),
		OutputFiles: outputFiles,
	}
}

// Bundles are linked in parallel. A bundle that fails to link is left out of
// the output without stopping the others.
func linkBundles(log logger.Log, options *LinkOptions, bundleGraph *graph.Graph, jobs []bundleJob) []OutputFile {
	configOptions := config.Options{Cwd: options.Cwd}
	printOptions := js_printer.Options{ASCIIOnly: options.ASCIIOnly}
	results := make([]*OutputFile, len(jobs))
	start := time.Now()

	waitGroup := sync.WaitGroup{}
	waitGroup.Add(len(jobs))
	for i, job := range jobs {
		go func(i int, job bundleJob) {
			defer waitGroup.Done()
			bundleLog := log.ForBundle(job.bundle.ID)

			tree, ok := parseBundle(bundleLog, options, job.options)
			if !ok {
				return
			}

			result, ok := linker.Link(&configOptions, bundleLog, linker.Input{
				Bundle:           job.bundle,
				BundleGraph:      bundleGraph,
				AST:              tree,
				BundleImports:    job.imports,
				Externals:        job.externals,
				ReferencedAssets: job.assets,
				Replacements:     job.options.Replacements,
				PrintOptions:     printOptions,
			})
			if !ok {
				return
			}

			results[i] = &OutputFile{
				Bundle:   job.bundle.ID,
				Path:     job.bundle.FilePath,
				Contents: result.JS,
				Exported: result.Exported.Names(),
			}
		}(i, job)
	}
	waitGroup.Wait()

	outputFiles := make([]OutputFile, 0, len(results))
	for _, result := range results {
		if result != nil {
			outputFiles = append(outputFiles, *result)
		}
	}

	linker.Logger().Debug("Linked bundles",
		zap.Int("bundles", len(jobs)),
		zap.Int("succeeded", len(outputFiles)),
		zap.Duration("elapsed", time.Since(start)))
	return outputFiles
}

// The runtime helpers go in front of the program so that the variables they
// declare are initialized before the program runs
func parseBundle(log logger.Log, options *LinkOptions, bundle *Bundle) (*js_ast.AST, bool) {
	tree := js_ast.NewAST()
	if options.IncludeHelpers {
		source := logger.Source{PrettyPath: "<runtime>", Contents: runtime.HelpersCode}
		if !js_parser.ParseInto(log, source, tree) {
			return nil, false
		}
	}
	source := logger.Source{PrettyPath: prettyPath(options.Cwd, bundle.FilePath), Contents: bundle.Contents}
	if !js_parser.ParseInto(log, source, tree) {
		return nil, false
	}
	return tree, true
}
