package renamer

import (
	"strconv"
	"strings"

	"github.com/hoistjs/hoist/internal/js_ast"
	"github.com/hoistjs/hoist/internal/scope"
)

// Renames the top-level binding "from" to "to" and returns the name the
// binding ends up with. An empty "to" asks for a generated name based on
// "from". Only the one binding changes: its declaration, every read and every
// write are updated and its flags are left alone.
func Rename(s *scope.Scope, from string, to string) (string, error) {
	if to == "" {
		to = GenerateUID(s, from)
	}
	if err := s.Rename(from, to); err != nil {
		return "", err
	}
	return to, nil
}

// Returns a name that is not bound or referenced anywhere in the program and
// was not handed out before. Names look like "_hint", "_hint2", "_hint3" and
// so on. The result is reserved so later calls never return it again.
func GenerateUID(s *scope.Scope, hint string) string {
	prefix := "_" + uidBase(hint)
	name := prefix

	// Each name starts off with a count of 1 so that the first collision with
	// "name" is called "name2"
	for tries := 1; !isAvailable(s, name); {
		tries++
		name = prefix + strconv.Itoa(tries)
	}

	s.ReserveName(name)
	return name
}

func isAvailable(s *scope.Scope, name string) bool {
	return !js_ast.ReservedWords[name] && !s.IsNameUsed(name)
}

// Strips leading underscores and trailing digits so that a generated name
// based on another generated name does not pile up "__a22"
func uidBase(hint string) string {
	base := js_ast.ToIdentifier(hint)
	base = strings.TrimLeft(base, "_")
	base = strings.TrimRight(base, "0123456789")
	if base == "" {
		return "temp"
	}
	return base
}
