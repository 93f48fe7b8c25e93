// SPDX-License-Identifier: MPL-2.0

package jsmodule

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"

	"github.com/ownclt/ownclt/pkg/command"
)

// maxDepth bounds the nesting of exported command objects. Self-referencing
// exports would otherwise recurse forever.
const maxDepth = 32

// HelpersModule is the name under which modules can require the
// defineCommand/defineCommands helpers.
const HelpersModule = "ownclt"

// moduleWrapper turns a CommonJS file into a function expression.
const moduleWrapper = "(function (exports, require, module, __filename, __dirname) {\n%s\n})"

// Extensions lists the file extensions handled by this package.
var Extensions = []string{".js", ".cjs"}

type (
	// Option configures Load.
	Option func(*runtime)

	// runtime is one goja VM plus the module cache of a single Load call. All
	// handlers of the returned tree share it.
	runtime struct {
		vm      *goja.Runtime
		path    string
		logger  *log.Logger
		out     io.Writer
		modules map[string]*goja.Object
		// current is the innermost handler context being executed; console
		// output is routed to its writers.
		current *command.Context
	}
)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(rt *runtime) { rt.logger = l }
}

// WithOutput sets where console output goes while the module body is being
// evaluated. Handlers always write to the writers of their own context.
func WithOutput(w io.Writer) Option {
	return func(rt *runtime) { rt.out = w }
}

// Supports reports whether path has a JavaScript extension.
func Supports(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// Load evaluates the module at path and maps its exports onto a command tree.
// The returned root is always a branch.
func Load(ctx context.Context, path string, opts ...Option) (*command.Node, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		vm:      goja.New(),
		path:    abs,
		logger:  log.New(io.Discard),
		out:     os.Stdout,
		modules: make(map[string]*goja.Object),
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.installGlobals()

	stop := context.AfterFunc(ctx, func() { rt.vm.Interrupt(context.Cause(ctx)) })
	defer stop()

	exports, err := rt.require(abs)
	if err != nil {
		return nil, err
	}

	root, ok := exports.(*goja.Object)
	if !ok || goja.IsNull(exports) {
		return nil, &InvalidModuleError{Path: abs, Reason: "module.exports must be an object of commands"}
	}
	if root.Get("__esModule") != nil && root.Get("__esModule").ToBoolean() {
		if def, ok := root.Get("default").(*goja.Object); ok {
			root = def
		}
	}
	if _, isFunc := goja.AssertFunction(root); isFunc || root.ClassName() == "Array" {
		return nil, &InvalidModuleError{Path: abs, Reason: "module.exports must be an object of commands"}
	}

	tree, err := rt.build(root, nil)
	if err != nil {
		return nil, err
	}
	rt.logger.Debug("javascript module loaded", "path", abs, "commands", len(tree.Paths()))
	return tree, nil
}

// require evaluates the CommonJS file at path once and returns its exports.
func (rt *runtime) require(path string) (goja.Value, error) {
	if module, ok := rt.modules[path]; ok {
		return module.Get("exports"), nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	program, err := goja.Compile(path, fmt.Sprintf(moduleWrapper, stripShebang(string(src))), false)
	if err != nil {
		return nil, &ScriptError{Path: path, Err: err}
	}
	wrapped, err := rt.vm.RunProgram(program)
	if err != nil {
		return nil, rt.scriptError(path, err)
	}
	fn, ok := goja.AssertFunction(wrapped)
	if !ok {
		return nil, &InvalidModuleError{Path: path, Reason: "module body did not compile to a function"}
	}

	module := rt.vm.NewObject()
	exports := rt.vm.NewObject()
	_ = module.Set("exports", exports)
	rt.modules[path] = module

	dir := filepath.Dir(path)
	_, err = fn(goja.Undefined(),
		exports,
		rt.vm.ToValue(rt.requireFrom(dir)),
		module,
		rt.vm.ToValue(path),
		rt.vm.ToValue(dir),
	)
	if err != nil {
		delete(rt.modules, path)
		return nil, rt.scriptError(path, err)
	}
	return module.Get("exports"), nil
}

// requireFrom returns the require function handed to a module living in dir.
// Only relative files and the helpers module can be required.
func (rt *runtime) requireFrom(dir string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		switch {
		case name == HelpersModule:
			return rt.helpers()
		case strings.HasPrefix(name, "./"), strings.HasPrefix(name, "../"), filepath.IsAbs(name):
			target := name
			if !filepath.IsAbs(target) {
				target = filepath.Join(dir, name)
			}
			exports, err := rt.require(resolveFile(target))
			if err != nil {
				panic(rt.vm.NewGoError(err))
			}
			return exports
		default:
			panic(rt.vm.NewGoError(fmt.Errorf("cannot require %q: only relative files and %q are available", name, HelpersModule)))
		}
	}
}

// build converts an exported value into a node. Values that are neither
// functions nor plain objects are not commands and yield nil.
func (rt *runtime) build(v goja.Value, path []string) (*command.Node, error) {
	if len(path) > maxDepth {
		return nil, &InvalidModuleError{
			Path:   rt.path,
			Reason: fmt.Sprintf("command tree is nested deeper than %d levels at %q", maxDepth, strings.Join(path, "/")),
		}
	}
	if fn, ok := goja.AssertFunction(v); ok {
		return command.Leaf(rt.handler(fn)), nil
	}
	obj, ok := v.(*goja.Object)
	if !ok || obj.ClassName() == "Array" {
		return nil, nil
	}

	children := make(map[string]*command.Node)
	for _, key := range obj.Keys() {
		if key == "" || strings.Contains(key, "/") {
			rt.logger.Debug("skipping unreachable export", "path", rt.path, "key", key)
			continue
		}
		child, err := rt.build(obj.Get(key), append(slices.Clone(path), key))
		if err != nil {
			return nil, err
		}
		if child != nil {
			children[key] = child
		}
	}
	return command.Branch(children), nil
}

// handler adapts a JS function to a command.Handler.
func (rt *runtime) handler(fn goja.Callable) command.Handler {
	return func(c *command.Context) (any, error) {
		prev := rt.current
		rt.current = c
		defer func() { rt.current = prev }()

		// Nested self calls run under the interrupt hook of the outermost one.
		if prev == nil && c.Context != nil {
			ctx := c.Context
			stop := context.AfterFunc(ctx, func() { rt.vm.Interrupt(context.Cause(ctx)) })
			defer stop()
		}

		ret, err := fn(goja.Undefined(), rt.contextObject(c))
		if err != nil {
			return nil, rt.scriptError(rt.path, err)
		}
		// Promise jobs only run once the outermost call returns, so a nested
		// call hands its raw value back to the calling script to await.
		if prev != nil {
			return ret, nil
		}
		return rt.result(ret)
	}
}

// result exports a handler return value, settling promises returned by
// async handlers. It is only valid at the outermost frame.
func (rt *runtime) result(v goja.Value) (any, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	promise, ok := v.Export().(*goja.Promise)
	if !ok {
		return v.Export(), nil
	}
	switch promise.State() {
	case goja.PromiseStateFulfilled:
		return rt.result(promise.Result())
	case goja.PromiseStateRejected:
		if err := wrappedGoError(promise.Result()); err != nil {
			return nil, err
		}
		return nil, &ScriptError{Path: rt.path, Err: errors.New(promise.Result().String())}
	default:
		return nil, &ScriptError{Path: rt.path, Err: errors.New("handler returned a promise that never settled")}
	}
}

// scriptError maps an error returned by goja to the error handed to callers.
// Go errors raised from bindings (for example a failed self call) come back
// unchanged.
func (rt *runtime) scriptError(path string, err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if cause, ok := interrupted.Value().(error); ok {
			return cause
		}
		return context.Canceled
	}

	var ex *goja.Exception
	if errors.As(err, &ex) {
		if goErr := wrappedGoError(ex.Value()); goErr != nil {
			return goErr
		}
		return &ScriptError{Path: path, Err: errors.New(ex.Value().String())}
	}
	return &ScriptError{Path: path, Err: err}
}

// wrappedGoError extracts the Go error carried by an error object created
// with Runtime.NewGoError.
func wrappedGoError(v goja.Value) error {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	inner := obj.Get("value")
	if inner == nil {
		return nil
	}
	err, _ := inner.Export().(error)
	return err
}

// resolveFile applies the usual CommonJS extension probing.
func resolveFile(path string) string {
	candidates := []string{path, path + ".js", path + ".cjs", filepath.Join(path, "index.js")}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return path
}

func stripShebang(src string) string {
	if !strings.HasPrefix(src, "#!") {
		return src
	}
	if i := strings.IndexByte(src, '\n'); i >= 0 {
		// Keep the newline so line numbers in stack traces stay right.
		return src[i:]
	}
	return ""
}
