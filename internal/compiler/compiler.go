// Package compiler implements the Compile Orchestrator (component F): it wires the Code Emitter
// to a standard-library directory and a single user source file, runs the LLVM optimization
// pipeline, and returns textual IR.
//
// Grounded on the teacher's ir/llvm/transform.go GenLLVM (context/builder/module construction,
// InitializeAllTarget*, data layout/triple assignment) and src/main.go's run() pipeline staging,
// adapted to the fixed AVR data layout and triple and the five-step sequence this specification
// requires: install prototypes, emit library modules in sorted order, emit the user program,
// optimize, emit text.
package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"tinygo.org/x/go-llvm"

	"avrc/internal/ast"
	"avrc/internal/diag"
	"avrc/internal/emitter"
)

// dataLayout and targetTriple are fixed: the core targets only the AVR 8-bit family.
const (
	dataLayout   = "e-P1-p:16:8-i8:8-i16:8-i32:8-i64:8-f32:8-f64:8-n8-a:8"
	targetTriple = "avr"
)

// Parser turns already-read source text into a syntax tree. The scripting-language front-end is
// out of scope for the compiler core; callers supply their own implementation (or a fixture, in
// tests).
type Parser interface {
	Parse(src []byte) (*ast.Node, error)
}

// Options configures one compilation run.
type Options struct {
	StdlibDir string // directory of standard-library modules; empty skips step 3 entirely.
	OptLevel  int    // 0=None, 1=Less, 2=Default, 3=Aggressive.
	SizeLevel int
	Threads   int // concurrency for library-module *parsing*; emission is always single-threaded.
}

// Result is the successful output of Compile.
type Result struct {
	IR string
}

// Compile runs the orchestrator's full pipeline against one user source file.
func Compile(parser Parser, userSrc []byte, moduleName string, opt Options) (*Result, error) {
	if opt.OptLevel < 0 || opt.OptLevel > 3 {
		return nil, &diag.SyntaxError{Desc: fmt.Sprintf("invalid optimization level %d (want 0..3)", opt.OptLevel)}
	}

	ctx := llvm.NewContext()
	defer ctx.Dispose()
	b := ctx.NewBuilder()
	defer b.Dispose()
	m := ctx.NewModule(moduleName)
	defer m.Dispose()

	m.SetDataLayout(dataLayout)
	m.SetTarget(targetTriple)

	em := emitter.New(ctx, m, b)
	em.InstallPrototypes()

	if opt.StdlibDir != "" {
		if err := emitStdlib(parser, em, opt); err != nil {
			return nil, err
		}
	}

	root, err := parser.Parse(userSrc)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if err := em.EmitProgram(root); err != nil {
		return nil, err
	}

	optimize(m, opt)

	return &Result{IR: m.String()}, nil
}

// libFile pairs a library module's path with its parse outcome. Parsing runs concurrently (pure,
// side-effect-free); emission afterwards always proceeds file-by-file in sorted order so IR output
// stays byte-reproducible, per SPEC_FULL.md §5.
type libFile struct {
	path string
	root *ast.Node
	err  error
}

// emitStdlib parses every standard-library module, bounded by opt.Threads concurrent workers
// (reusing the teacher's sync.WaitGroup/buffered-channel idiom from util.perror), then emits them
// one at a time in sorted path order.
func emitStdlib(parser Parser, em *emitter.Emitter, opt Options) error {
	paths, err := stdlibPaths(opt.StdlibDir)
	if err != nil {
		return fmt.Errorf("could not enumerate standard library directory: %w", err)
	}
	if len(paths) == 0 {
		return nil
	}

	threads := opt.Threads
	if threads < 1 {
		threads = 1
	}
	if threads > len(paths) {
		threads = len(paths)
	}

	files := make([]libFile, len(paths))
	sem := make(chan struct{}, threads)
	var wg sync.WaitGroup
	wg.Add(len(paths))
	for i, p := range paths {
		go func(i int, p string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			src, err := os.ReadFile(p)
			if err != nil {
				files[i] = libFile{path: p, err: err}
				return
			}
			root, err := parser.Parse(src)
			files[i] = libFile{path: p, root: root, err: err}
		}(i, p)
	}
	wg.Wait()

	for _, f := range files {
		if f.err != nil {
			return &diag.LibraryParseError{Path: f.path, Err: f.err}
		}
	}
	for _, f := range files {
		if err := em.EmitProgram(f.root); err != nil {
			return fmt.Errorf("%s: %w", f.path, err)
		}
	}
	return nil
}

// stdlibPaths enumerates dir's entries in lexicographic order, skipping any file whose name
// contains "__init__", per spec.md §4.F step 3.
func stdlibPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, ent := range entries {
		if ent.IsDir() || strings.Contains(ent.Name(), "__init__") {
			continue
		}
		paths = append(paths, filepath.Join(dir, ent.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// optimize builds an LLVM pass manager at the requested optimization level and runs it on m. The
// 0..3 -> None/Less/Default/Aggressive mapping is grounded on original_source/src/compiler/mod.rs's
// PassManagerBuilder configuration; Compile has already rejected any out-of-range level before this
// runs.
func optimize(m llvm.Module, opt Options) {
	pmb := llvm.NewPassManagerBuilder()
	defer pmb.Dispose()
	pmb.SetOptLevel(opt.OptLevel)
	pmb.SetSizeLevel(opt.SizeLevel)

	pm := llvm.NewPassManager()
	defer pm.Dispose()
	pmb.Populate(pm)
	pm.Run(m)
}
