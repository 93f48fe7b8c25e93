// SPDX-License-Identifier: MPL-2.0

package jsmodule

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"

	"github.com/ownclt/ownclt/pkg/command"
)

type nativeFunc = func(goja.FunctionCall) goja.Value

// installGlobals defines console and the command helper globals.
func (rt *runtime) installGlobals() {
	console := rt.vm.NewObject()
	_ = console.Set("log", rt.consoleFunc(false))
	_ = console.Set("info", rt.consoleFunc(false))
	_ = console.Set("debug", rt.consoleFunc(false))
	_ = console.Set("warn", rt.consoleFunc(true))
	_ = console.Set("error", rt.consoleFunc(true))
	_ = rt.vm.Set("console", console)

	helpers := rt.helpers()
	_ = rt.vm.Set("defineCommand", helpers.Get("defineCommand"))
	_ = rt.vm.Set("defineCommands", helpers.Get("defineCommands"))
}

// helpers returns the object exported by require("ownclt").
func (rt *runtime) helpers() *goja.Object {
	identity := func(call goja.FunctionCall) goja.Value { return call.Argument(0) }
	obj := rt.vm.NewObject()
	_ = obj.Set("defineCommand", identity)
	_ = obj.Set("defineCommands", identity)
	return obj
}

func (rt *runtime) consoleFunc(stderr bool) nativeFunc {
	return func(call goja.FunctionCall) goja.Value {
		var w io.Writer = rt.out
		if c := rt.current; c != nil {
			w = c.Stdout
			if stderr {
				w = c.Stderr
			}
		}
		fmt.Fprintln(w, joinValues(call.Arguments))
		return goja.Undefined()
	}
}

// contextObject builds the JS view of a command.Context.
func (rt *runtime) contextObject(c *command.Context) *goja.Object {
	vm := rt.vm
	obj := vm.NewObject()
	_ = obj.Set("args", rt.stringArray(c.Args))
	_ = obj.Set("command", c.Command)
	_ = obj.Set("namespace", c.Namespace)
	_ = obj.Set("subCommands", rt.stringArray(c.SubCommands))
	_ = obj.Set("fromSelf", c.FromSelf)
	_ = obj.Set("invocationId", c.InvocationID)
	_ = obj.Set("paths", rt.pathsObject(c.Paths))
	_ = obj.Set("log", rt.logObject(c.Log))
	if c.State != nil {
		_ = obj.Set("state", rt.stateObject(c.State))
	}
	if c.Store != nil {
		_ = obj.Set("store", rt.storeObject(c.Store))
	}
	_ = obj.Set("self", nativeFunc(func(call goja.FunctionCall) goja.Value {
		res, err := c.Self(call.Argument(0).String(), rt.selfArgs(call.Argument(1))...)
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return vm.ToValue(res)
	}))
	return obj
}

func (rt *runtime) stateObject(st *command.State) *goja.Object {
	vm := rt.vm
	obj := vm.NewObject()
	_ = obj.Set("get", nativeFunc(func(call goja.FunctionCall) goja.Value {
		if v, ok := st.Get(call.Argument(0).String()); ok {
			return vm.ToValue(v)
		}
		return call.Argument(1)
	}))
	_ = obj.Set("set", nativeFunc(func(call goja.FunctionCall) goja.Value {
		st.Set(call.Argument(0).String(), export(call.Argument(1)))
		return goja.Undefined()
	}))
	_ = obj.Set("has", nativeFunc(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(st.Has(call.Argument(0).String()))
	}))
	_ = obj.Set("unset", nativeFunc(func(call goja.FunctionCall) goja.Value {
		st.Unset(call.Argument(0).String())
		return goja.Undefined()
	}))
	_ = obj.Set("keys", nativeFunc(func(goja.FunctionCall) goja.Value {
		return rt.stringArray(st.Keys())
	}))
	return obj
}

func (rt *runtime) storeObject(store command.Store) *goja.Object {
	vm := rt.vm
	obj := vm.NewObject()
	_ = obj.Set("get", nativeFunc(func(call goja.FunctionCall) goja.Value {
		if v, ok := store.Get(call.Argument(0).String()); ok {
			return vm.ToValue(v)
		}
		return call.Argument(1)
	}))
	// set accepts either (key, value) or a single object of key/value pairs.
	_ = obj.Set("set", nativeFunc(func(call goja.FunctionCall) goja.Value {
		first := call.Argument(0)
		if values, ok := export(first).(map[string]any); ok {
			for key, value := range values {
				store.Set(key, value)
			}
			return goja.Undefined()
		}
		store.Set(first.String(), export(call.Argument(1)))
		return goja.Undefined()
	}))
	_ = obj.Set("has", nativeFunc(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(store.Has(call.Argument(0).String()))
	}))
	_ = obj.Set("unset", nativeFunc(func(call goja.FunctionCall) goja.Value {
		store.Unset(call.Argument(0).String())
		return goja.Undefined()
	}))
	_ = obj.Set("clear", nativeFunc(func(goja.FunctionCall) goja.Value {
		store.Clear()
		return goja.Undefined()
	}))
	_ = obj.Set("keys", nativeFunc(func(goja.FunctionCall) goja.Value {
		return rt.stringArray(store.Keys())
	}))
	_ = obj.Set("commitChanges", nativeFunc(func(goja.FunctionCall) goja.Value {
		if err := store.Commit(); err != nil {
			panic(vm.NewGoError(err))
		}
		return goja.Undefined()
	}))
	_ = obj.Set("collection", nativeFunc(func(goja.FunctionCall) goja.Value {
		return vm.ToValue(store.Collection())
	}))
	return obj
}

func (rt *runtime) pathsObject(p command.Paths) *goja.Object {
	obj := rt.vm.NewObject()
	_ = obj.Set("cwd", p.Cwd)
	_ = obj.Set("cwdResolve", nativeFunc(func(call goja.FunctionCall) goja.Value {
		arg := call.Argument(0)
		if goja.IsUndefined(arg) || goja.IsNull(arg) {
			return rt.vm.ToValue(p.CwdResolve(""))
		}
		return rt.vm.ToValue(p.CwdResolve(arg.String()))
	}))
	return obj
}

func (rt *runtime) logObject(l *log.Logger) *goja.Object {
	if l == nil {
		l = log.New(io.Discard)
	}
	logAt := func(fn func(msg any, keyvals ...any)) nativeFunc {
		return func(call goja.FunctionCall) goja.Value {
			fn(joinValues(call.Arguments))
			return goja.Undefined()
		}
	}
	obj := rt.vm.NewObject()
	_ = obj.Set("info", logAt(l.Info))
	_ = obj.Set("success", logAt(l.Info))
	_ = obj.Set("warning", logAt(l.Warn))
	_ = obj.Set("error", logAt(l.Error))
	_ = obj.Set("debug", logAt(l.Debug))
	return obj
}

// selfArgs normalizes the second argument of self: an array is used as is,
// any other defined value becomes a single argument. Missing elements turn
// into empty strings.
func (rt *runtime) selfArgs(v goja.Value) []string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok || obj.ClassName() != "Array" {
		return []string{v.String()}
	}
	n := int(obj.Get("length").ToInteger())
	args := make([]string, 0, n)
	for i := range n {
		elem := obj.Get(strconv.Itoa(i))
		if elem == nil || goja.IsUndefined(elem) || goja.IsNull(elem) {
			args = append(args, "")
			continue
		}
		args = append(args, elem.String())
	}
	return args
}

func (rt *runtime) stringArray(values []string) *goja.Object {
	items := make([]any, len(values))
	for i, v := range values {
		items[i] = v
	}
	return rt.vm.NewArray(items...)
}

func export(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return v.Export()
}

// joinValues renders console/log arguments the way a terminal console would:
// plain objects and arrays as JSON, everything else through toString.
func joinValues(values []goja.Value) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		obj, ok := v.(*goja.Object)
		if ok && (obj.ClassName() == "Object" || obj.ClassName() == "Array") {
			if data, err := json.Marshal(obj.Export()); err == nil {
				parts = append(parts, string(data))
				continue
			}
		}
		parts = append(parts, v.String())
	}
	return strings.Join(parts, " ")
}
