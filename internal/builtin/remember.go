// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"encoding/json"
	"fmt"

	"github.com/ownclt/ownclt/pkg/command"
)

// rememberSet stores a value and commits it.
// Usage: /remember/set KEY VALUE
func (c *Commands) rememberSet(ctx *command.Context) (any, error) {
	if len(ctx.Args) < 2 {
		return nil, usage(ctx, "key and value are required")
	}
	key, value := ctx.Args[0], ctx.Args[1]

	ctx.Store.Set(key, value)
	if err := ctx.Store.Commit(); err != nil {
		return nil, err
	}
	return command.Success(fmt.Sprintf("%s ==> %s", key, value)), nil
}

// rememberGet prints a stored value. Non-string values are printed as JSON.
// Usage: /remember/get KEY
func (c *Commands) rememberGet(ctx *command.Context) (any, error) {
	key := ctx.Arg(0)
	if key == "" {
		return nil, usage(ctx, "key is required")
	}

	v, ok := ctx.Store.Get(key)
	if !ok {
		return nil, &KeyNotFoundError{Key: key}
	}
	if s, isString := v.(string); isString {
		fmt.Fprintln(ctx.Stdout, s)
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(ctx.Stdout, string(data))
	return nil, nil
}

// rememberUnset removes a stored value and commits.
// Usage: /remember/unset KEY
func (c *Commands) rememberUnset(ctx *command.Context) (any, error) {
	key := ctx.Arg(0)
	if key == "" {
		return nil, usage(ctx, "key is required")
	}
	if !ctx.Store.Has(key) {
		return nil, &KeyNotFoundError{Key: key}
	}

	ctx.Store.Unset(key)
	if err := ctx.Store.Commit(); err != nil {
		return nil, err
	}
	return command.Success(fmt.Sprintf("%s removed", key)), nil
}
