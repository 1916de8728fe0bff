package main

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	humanize "github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"ember-vm/internal/vm"
)

// runREPL drives an interactive (or piped) read-eval-print loop over a
// single, persistent VM — globals and the intern table survive across
// lines, the same way the teacher's REPL keeps one VM for the whole
// session.
func runREPL(trace bool, historyLog *sql.DB) {
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	if interactive {
		fmt.Printf("ember %s\n", version)
		fmt.Println("Type :exit to quit, :heap to inspect the object heap.")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     historyFilePath(),
		InterruptPrompt: "^C",
		EOFPrompt:       ":exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ember: %s\n", err)
		return
	}
	defer rl.Close()

	machine := vm.NewWithConfig(vm.Config{
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		TraceExecution: trace,
	})

	for {
		line, err := rl.Readline()
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch line {
		case ":exit":
			return
		case ":heap":
			printHeapStatus(machine)
			continue
		}

		result, runErr := machine.Interpret(line)
		if historyLog != nil {
			logTranscriptLine(historyLog, line, result, runErr)
		}
	}
}

// printHeapStatus reports the number of objects linked into the VM's heap,
// formatting the count with go-humanize the way a REPL diagnostic command
// would for a long-running session. Intern-table occupancy is not reported.
func printHeapStatus(machine *vm.VM) {
	count := machine.Heap().Count()
	fmt.Printf("heap: %s object%s tracked\n", humanize.Comma(int64(count)), plural(count))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ember_history"
	}
	return home + "/.ember_history"
}

// openHistoryDB opens (creating if necessary) the SQLite-backed REPL
// transcript log at path and ensures its schema exists.
func openHistoryDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS transcript (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		line TEXT NOT NULL,
		result TEXT NOT NULL,
		error TEXT,
		recorded_at TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// logTranscriptLine records one REPL evaluation. Failures to log are
// reported but never abort the session — the log is a forensic aid, not
// part of the interpreter's contract.
func logTranscriptLine(db *sql.DB, line string, result vm.InterpretResult, runErr error) {
	errText := ""
	if runErr != nil {
		errText = runErr.Error()
	}
	_, err := db.Exec(
		`INSERT INTO transcript (line, result, error, recorded_at) VALUES (?, ?, ?, ?)`,
		line, result.String(), errText, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ember: history log: %s\n", err)
	}
}
