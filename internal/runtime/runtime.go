package runtime

// The linker emits calls to these helpers but never defines them. A host
// that merges assets into a program is expected to include HelpersCode once
// per bundle that uses them, and to put Prelude in front of every global
// bundle that other bundles load modules from.

const (
	// Returns the "default" export of a module that may be CommonJS
	InteropDefault = "$hoist$interopDefault"

	// Copies every export except "default" onto a namespace object
	ExportWildcard = "$hoist$exportWildcard"

	// The module registry shared by global bundles. It is a function that
	// looks a module up by asset id and has a "register" method.
	Require = "hoistRequire"

	// A placeholder variable bound to the global object. The tree shaker
	// treats its declaration as pure.
	Global = "$hoist$global"
)

const HelpersCode = `
var $hoist$global = typeof globalThis !== "undefined" ? globalThis : typeof self !== "undefined" ? self : typeof window !== "undefined" ? window : typeof global !== "undefined" ? global : {};

function $hoist$interopDefault(a) {
  return a && a.__esModule ? a.default : a;
}

function $hoist$exportWildcard(dest, source) {
  Object.keys(source).forEach(function(key) {
    if (key === "default" || key === "__esModule") {
      return;
    }
    Object.defineProperty(dest, key, {
      enumerable: true,
      get: function get() {
        return source[key];
      }
    });
  });
  return dest;
}
`

// Defines the registry unless a bundle that ran earlier already did. Modules
// registered by one bundle are visible to every bundle loaded after it.
const Prelude = `(function() {
  var g = typeof globalThis !== "undefined" ? globalThis : typeof self !== "undefined" ? self : typeof window !== "undefined" ? window : typeof global !== "undefined" ? global : {};
  if (g.hoistRequire != null) {
    return;
  }
  var modules = {};
  var hoistRequire = function(id) {
    if (Object.prototype.hasOwnProperty.call(modules, id)) {
      return modules[id];
    }
    var err = new Error("Cannot find module '" + id + "'");
    err.code = "MODULE_NOT_FOUND";
    throw err;
  };
  hoistRequire.register = function(id, exports) {
    modules[id] = exports;
  };
  g.hoistRequire = hoistRequire;
})();
`
