// Command ember is the file-run and REPL shell around the core interpreter
// in ember-vm/internal/vm. It is the "external collaborator" SPEC_FULL.md
// scopes out of the language core: nothing it does changes opcode semantics.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"runtime/debug"

	"ember-vm/internal/compiler"
	"ember-vm/internal/vm"

	_ "modernc.org/sqlite"
)

const version = "v0.1.0"

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, "recovered from panic:", r)
			debug.PrintStack()
			os.Exit(70)
		}
	}()

	showDisassembly := flag.Bool("disassembly", false, "print the compiled chunk's disassembly before running it")
	showVersion := flag.Bool("version", false, "print version information")
	traceExecution := flag.Bool("trace", false, "trace each instruction as the VM executes it")
	historyDB := flag.String("history-db", "", "log REPL transcript (input, result, timestamp) to this SQLite file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ember [options] [script]\n\nOptions:\n")
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(os.Stderr, "  --%s\n\t%s\n", f.Name, f.Usage)
		})
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("ember %s\n", version)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		var log *sql.DB
		if *historyDB != "" {
			db, err := openHistoryDB(*historyDB)
			if err != nil {
				fmt.Fprintf(os.Stderr, "ember: opening history db: %s\n", err)
				os.Exit(1)
			}
			defer db.Close()
			log = db
		}
		runREPL(*traceExecution, log)
		return
	}

	os.Exit(runFile(args[0], *showDisassembly, *traceExecution))
}

// runFile compiles and runs a script file, mapping the InterpretResult to a
// process exit code per spec.md §6: 0 on success, 65 on compile error, 70 on
// runtime error.
func runFile(path string, showDisassembly, trace bool) int {
	source, err := ioutil.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ember: %s\n", err)
		return 74
	}

	if showDisassembly {
		c, ok := compiler.Compile(string(source), vm.New(), os.Stderr, path)
		if ok {
			c.DisassembleAll(path)
		}
	}

	machine := vm.NewWithConfig(vm.Config{
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		TraceExecution: trace,
	})

	result, _ := machine.Interpret(string(source))
	return exitCode(result)
}

func exitCode(result vm.InterpretResult) int {
	switch result {
	case vm.Ok:
		return 0
	case vm.CompileError:
		return 65
	case vm.RuntimeError:
		return 70
	default:
		return 1
	}
}
