package linker

import (
	"go.uber.org/zap/zapcore"

	"github.com/hoistjs/hoist/internal/scope"
)

// The binding table for the debug log. Each binding shows its kind and how
// many reads and writes it has, which is usually enough to see why the tree
// shaker kept something.
type bindingTable struct {
	scope *scope.Scope
}

func (t bindingTable) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, name := range t.scope.Names() {
		b := t.scope.Lookup(name)
		exported := t.scope.IsPinned(name)
		err := enc.AddObject(name, zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
			enc.AddString("kind", b.Kind.String())
			enc.AddInt("references", len(b.References))
			enc.AddInt("writes", len(b.ConstantViolations))
			if exported {
				enc.AddBool("exported", true)
			}
			return nil
		}))
		if err != nil {
			return err
		}
	}
	return nil
}
