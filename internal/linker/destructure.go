package linker

import (
	"github.com/hoistjs/hoist/internal/compat"
	"github.com/hoistjs/hoist/internal/config"
	"github.com/hoistjs/hoist/internal/js_ast"
	"github.com/hoistjs/hoist/internal/logger"
	"github.com/hoistjs/hoist/internal/renamer"
)

// One "key: local" entry of a destructuring declaration
type specifier struct {
	key   string
	local string
}

// Generates declarations that bind each specifier's local name to the
// property of "value" with the specifier's key. Engines that understand
// object destructuring get a single declaration:
//
//	var { a, b: c } = value;
//
// Older engines get one declaration per specifier. A value that is not a
// plain identifier is stored in a temporary first when it would otherwise be
// evaluated more than once:
//
//	var _temp = value;
//	var a = _temp.a;
//	var c = _temp.b;
//
// Every returned statement declares exactly one name, except the single
// destructuring declaration. None of them are in the tree yet.
func (c *linkerContext) generateDestructuringAssignment(env config.Environment, specifiers []specifier, value js_ast.Index) []js_ast.Index {
	tree := c.ast

	if env.Supports(compat.ObjectDestructuring) {
		properties := make([]js_ast.Index, 0, len(specifiers))
		for _, spec := range specifiers {
			properties = append(properties, tree.Add(logger.Loc{}, &js_ast.BProperty{
				Key:   tree.Str(spec.key),
				Value: tree.BIdent(spec.local),
			}))
		}
		pattern := tree.Add(logger.Loc{}, &js_ast.BObject{Properties: properties})
		return []js_ast.Index{tree.Local(js_ast.LocalVar, pattern, value)}
	}

	var stmts []js_ast.Index
	name, isIdentifier := tree.Data(value).(*js_ast.EIdentifier)
	source := ""
	if isIdentifier {
		source = name.Name
	} else if len(specifiers) > 1 {
		source = renamer.GenerateUID(c.scope, "temp")
		stmts = append(stmts, tree.Local(js_ast.LocalVar, tree.BIdent(source), value))
	}

	for i, spec := range specifiers {
		// The value node itself is used once, the rest read the identifier
		object := value
		if source != "" && (i > 0 || !isIdentifier) {
			object = tree.Ident(source)
		}
		stmts = append(stmts, tree.Local(js_ast.LocalVar, tree.BIdent(spec.local), tree.Member(object, spec.key)))
	}
	return stmts
}
