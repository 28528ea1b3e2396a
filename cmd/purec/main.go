// Command purec is the editor's entry point: positional file arguments to
// open, plus -h/--help and -s/--load-session per §6.
//
// Grounded in the teacher's two parallel mains (root main.go and
// cmd/prose/main.go, mid-migration to an internal/editor split) merged
// into the one internal/editor-backed entry point per §9's guidance to
// centralize the aggregate.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jackwreid/purec/internal/editor"
)

const usage = `usage: purec [-h] [-s] [file ...]

  -h, --help           show this message and exit
  -s, --load-session   restore the most recently saved session
`

func main() {
	var loadSession bool
	var files []string

	for _, arg := range os.Args[1:] {
		switch arg {
		case "-h", "--help":
			fmt.Fprint(os.Stderr, usage)
			os.Exit(0)
		case "-s", "--load-session":
			loadSession = true
		default:
			files = append(files, arg)
		}
	}

	cacheDir, err := sessionDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "purec: %v\n", err)
		os.Exit(1)
	}

	var e *editor.Editor
	if loadSession {
		e, err = openLatestSession(cacheDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "purec: %v\n", err)
			os.Exit(1)
		}
	}
	if e == nil {
		e, err = editor.New(files)
		if err != nil {
			fmt.Fprintf(os.Stderr, "purec: %v\n", err)
			os.Exit(1)
		}
	}

	runErr := e.Run()
	saveSession(e, cacheDir)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "purec: %v\n", runErr)
		os.Exit(1)
	}
	os.Exit(e.QuitCode)
}

// sessionDir returns $HOME/.cache/purec/sessions, creating it if absent,
// per §6's environment contract ("HOME required; session/cache live under
// $HOME/.cache/purec/").
func sessionDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("HOME is required: %w", err)
	}
	dir := filepath.Join(home, ".cache", "purec", "sessions")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// openLatestSession restores the most recently mtimed session file in
// dir, falling back to a nil *editor.Editor (caller starts fresh) if none
// parses.
func openLatestSession(dir string) (*editor.Editor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil
	}
	sort.Slice(entries, func(i, j int) bool {
		ii, _ := entries[i].Info()
		jj, _ := entries[j].Info()
		if ii == nil || jj == nil {
			return false
		}
		return ii.ModTime().After(jj.ModTime())
	})
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		f, err := os.Open(filepath.Join(dir, ent.Name()))
		if err != nil {
			continue
		}
		e, ok, err := editor.LoadSession(f)
		f.Close()
		if err == nil && ok {
			return e, nil
		}
	}
	return nil, nil
}

// saveSession writes the current editor state to a timestamped file in
// dir so a future -s picks it up, per §6.
func saveSession(e *editor.Editor, dir string) {
	if dir == "" {
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("session-%d.purec", time.Now().Unix()))
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	_ = e.SaveSession(f, time.Now().Unix())
}
