package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"
)

// devMode runs the program in file, and runs it again each time file
// changes. In debug mode the program is loaded into the debugger, which
// is reset on each change, and symFile (if any) is re-read with it.
func devMode(debug bool, file, symFile string, cfg *config) error {
	file = filepath.Clean(file)
	if symFile != "" {
		symFile = filepath.Clean(symFile)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(file)); err != nil {
		return err
	}
	if symFile != "" && filepath.Dir(symFile) != filepath.Dir(file) {
		if err := watcher.Watch(filepath.Dir(symFile)); err != nil {
			return err
		}
	}

	var (
		d    *debugger
		done = make(chan error, 1)
	)
	if debug {
		m, err := load(file, cfg)
		if err != nil {
			return err
		}
		var syms symbols
		if symFile != "" {
			if syms, err = readSymbols(symFile); err != nil {
				return err
			}
		}
		d = newDebugger(m, syms)
		log.SetPrefix("")
		log.SetOutput(d.log)
		defer func() {
			log.SetOutput(os.Stderr)
			log.SetPrefix("icx: ")
		}()
		go func() { done <- d.Run() }()
	}

	reload := func() {
		m, err := load(file, cfg)
		if err != nil {
			log.Printf("dev: %v", err)
			return
		}
		if d == nil {
			log.Printf("dev: run %s", filepath.Base(file))
			if err := runBatch(os.Stdout, m); err != nil {
				log.Printf("dev: %v", err)
			}
			return
		}
		if symFile != "" {
			syms, err := readSymbols(symFile)
			if err != nil {
				log.Printf("dev: reading symbols: %v", err)
				return
			}
			d.setSymbols(syms)
		}
		d.reset(m)
		d.queueState(stepState)
	}

	var run <-chan time.Time
	if d == nil {
		run = time.After(1 * time.Millisecond)
	}
	for {
		select {
		case <-run:
			reload()
		case ev := <-watcher.Event:
			if !ev.IsAttrib() && watched(ev.Name, file, symFile) {
				run = time.After(100 * time.Millisecond)
			}
		case err := <-watcher.Error:
			log.Printf("dev: watcher: %v", err)
		case err := <-done:
			return err
		}
	}
}

// watched reports whether the event name refers to one of files.
// Event names are the watched directory joined with the file name,
// so "prog.ic" in the current directory arrives as "./prog.ic".
func watched(name string, files ...string) bool {
	name = filepath.Clean(name)
	for _, f := range files {
		if f != "" && filepath.Clean(f) == name {
			return true
		}
	}
	return false
}
