// Command avrc is the CLI driver for the AVR compiler core: it parses arguments, runs the
// compile pipeline, and optionally shells out to the downstream AVR toolchain to flash the
// result, grounded on the teacher's src/main.go run()/main() split.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"avrc/internal/ast"
	"avrc/internal/cliopts"
	"avrc/internal/compiler"
	"avrc/internal/diag"
	"avrc/internal/toolchain"
)

// jsonParser adapts the AST Bridge's Decode function to compiler.Parser: the scripting-language
// front-end itself is out of scope, so this CLI accepts its tree pre-serialized as JSON.
type jsonParser struct{}

func (jsonParser) Parse(src []byte) (*ast.Node, error) {
	return ast.Decode(src)
}

func main() {
	opt, err := cliopts.ParseArgs(os.Args[1:])
	if err != nil {
		if cliopts.IsExitSignal(err) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "argument error:", err)
		os.Exit(1)
	}

	if err := run(opt); err != nil {
		diag.Report(os.Stderr, opt.Src, err)
		os.Exit(1)
	}
}

// run executes the compile pipeline and, if requested, the downstream flash toolchain.
func run(opt cliopts.Options) error {
	src, err := os.ReadFile(opt.Src)
	if err != nil {
		return fmt.Errorf("could not read source: %w", err)
	}

	result, err := compiler.Compile(jsonParser{}, src, filepath.Base(opt.Src), compiler.Options{
		StdlibDir: os.Getenv("AVRC_STDLIB_DIR"),
		OptLevel:  opt.OptLevel,
	})
	if err != nil {
		return err
	}

	irPath := strings.TrimSuffix(opt.Src, filepath.Ext(opt.Src)) + ".ll"
	if err := os.WriteFile(irPath, []byte(result.IR), 0644); err != nil {
		return fmt.Errorf("could not write IR file: %w", err)
	}
	if !opt.EmitLLVM {
		defer os.Remove(irPath)
	}

	if opt.UploadTo == "" {
		return nil
	}
	return flash(irPath, opt)
}

// flash runs the llc -> avr-gcc -> avr-objcopy -> avrdude chain described in spec.md §6.
func flash(irPath string, opt cliopts.Options) error {
	base := strings.TrimSuffix(irPath, ".ll")
	objPath := base + ".o"
	elfPath := base + ".elf"
	hexPath := base + ".hex"
	flags := toolchain.Flags{CPU: opt.CPU, Port: opt.UploadTo, Baudrate: opt.Baudrate}

	if err := toolchain.Llc(irPath, objPath, flags, opt.OptLevel); err != nil {
		return fmt.Errorf("llc failed: %w", err)
	}
	if err := toolchain.AvrGCC(objPath, elfPath, flags); err != nil {
		return fmt.Errorf("avr-gcc failed: %w", err)
	}
	if err := toolchain.ObjCopy(elfPath, hexPath); err != nil {
		return fmt.Errorf("avr-objcopy failed: %w", err)
	}
	if err := toolchain.Avrdude(hexPath, flags); err != nil {
		return fmt.Errorf("avrdude failed: %w", err)
	}
	if opt.RemoveHex {
		defer os.Remove(hexPath)
	}
	return nil
}
