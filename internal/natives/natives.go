// Package natives registers the built-in function tables that back
// "Native call" path: I/O, math, collections, strings,
// net, json, process, filesystem, and async. Each table is a plain
// Go function set; RegisterAll wires every name into the
// interpreter's native registry and global environment.
package natives

import (
	"github.com/mochacinno-dev/zephyr/internal/evaluator"
	"github.com/mochacinno-dev/zephyr/internal/natives/asyncrt"
	"github.com/mochacinno-dev/zephyr/internal/natives/collections"
	"github.com/mochacinno-dev/zephyr/internal/natives/core"
	"github.com/mochacinno-dev/zephyr/internal/natives/data"
	"github.com/mochacinno-dev/zephyr/internal/natives/fs"
	"github.com/mochacinno-dev/zephyr/internal/natives/mathfns"
	"github.com/mochacinno-dev/zephyr/internal/natives/netfns"
	"github.com/mochacinno-dev/zephyr/internal/natives/process"
)

// RegisterAll installs every native table on interp.
func RegisterAll(interp *evaluator.Interpreter) {
	for _, table := range []map[string]evaluator.NativeFunc{
		core.Table(),
		mathfns.Table(),
		collections.Table(),
		data.Table(),
		netfns.Table(),
		process.Table(),
		fs.Table(),
	} {
		for name, fn := range table {
			interp.RegisterNative(name, fn)
		}
	}
	asyncrt.Register(interp)
}
