package api

type Format uint8

const (
	FormatCommonJS Format = iota
	FormatESModule
	FormatGlobal
)

type Context uint8

const (
	ContextBrowser Context = iota
	ContextWebWorker
	ContextServiceWorker
	ContextNode
	ContextElectronMain
	ContextElectronRenderer
)

type Location struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Message struct {
	Text     string
	Location *Location

	// The id of the bundle this message is about, if any
	Bundle string
}

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type LogLevel uint8

const (
	LogLevelSilent LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

////////////////////////////////////////////////////////////////////////////////
// Bundle graph

type Asset struct {
	ID       string
	FilePath string

	// Defaults to "$<id>$exports"
	ExportsIdentifier string

	IsCommonJS bool
	IsEntry    bool
	IsIsolated bool

	// Only used for the main entry of a bundle. Each export maps to the
	// top-level identifier that holds it in the merged program.
	ExportedSymbols []ExportedSymbol
}

type ExportedSymbol struct {
	Name string

	// Empty if the export could not be resolved
	Symbol string

	// The id of the asset where resolving the export stopped
	Asset string
}

type ExternalSpecifier struct {
	Imported string // "default", "*" or a name
	Local    string
}

type ExternalImport struct {
	Source     string
	Specifiers []ExternalSpecifier
	IsCommonJS bool
}

// Exports objects this bundle reads from assets that live in another bundle
type BundleImport struct {
	Bundle string
	Assets []string
}

type Bundle struct {
	ID       string
	Type     string // Defaults to "js"
	FilePath string

	Format   Format
	Context  Context
	Target   string // Like "chrome58,node6.5"
	Isolated bool

	// The top-level statements of every asset, already merged into one
	// program
	Contents string

	Assets    []Asset
	MainEntry string // An asset id, or empty for shared bundles

	// Ids of the bundles that load this one, and of the bundles loaded next
	// to it
	Parents  []string
	Siblings []string

	Imports          []BundleImport
	Externals        []ExternalImport
	ReferencedAssets []string // Ids of assets other bundles read from
	Replacements     map[string]string
}

////////////////////////////////////////////////////////////////////////////////
// Link API

type LinkOptions struct {
	Color      StderrColor
	ErrorLimit int
	LogLevel   LogLevel

	// Paths in messages are relative to this directory
	Cwd string

	// Adds the definitions of the interop helpers to every bundle. Helpers a
	// bundle does not use are removed again by tree shaking.
	IncludeHelpers bool

	ASCIIOnly bool

	Bundles []Bundle
}

type LinkResult struct {
	Errors   []Message
	Warnings []Message

	// One per bundle that linked successfully, in the order of the bundles
	OutputFiles []OutputFile
}

type OutputFile struct {
	Bundle   string
	Path     string
	Contents []byte

	// Top-level identifiers that other bundles may depend on
	Exported []string
}

func Link(options LinkOptions) LinkResult {
	return linkImpl(options)
}
