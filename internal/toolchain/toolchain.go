// Package toolchain models the external collaborators downstream of the compiler core: llc,
// avr-gcc, avr-objcopy and avrdude are invoked as plain subprocesses, never linked against. Their
// CLI contracts are fixed by spec.md §6; this package's job is only to shape the exact argument
// lists, not to reimplement any of their behavior.
//
// Grounded on original_source/src/arduino/avrdude.rs and avrgcc.rs's flag assembly (executable
// path, flag list, spawn-and-wait), adapted to Go's os/exec in the teacher's own subprocess-free
// style of always returning a plain error rather than panicking on a failed external tool.
package toolchain

import (
	"bytes"
	"fmt"
	"os/exec"
)

// Flags carries the subset of driver options the toolchain contracts in spec.md §6 need.
type Flags struct {
	CPU      string // e.g. "atmega328p".
	Port     string // serial port for avrdude, e.g. "/dev/ttyACM0".
	Baudrate int
}

// run executes name with args, returning combined stdout/stderr on failure so the CLI driver can
// surface the external tool's own diagnostic verbatim.
func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w\n%s", name, args, err, out.String())
	}
	return nil
}

// Llc invokes `llc -filetype=obj -march=avr -mcpu=<cpu> -O<n> --thread-model=single` to translate
// the textual IR at irPath into an object file at objPath, per spec.md §6.
func Llc(irPath, objPath string, flags Flags, optLevel int) error {
	return run("llc",
		"-filetype=obj",
		"-march=avr",
		"-mcpu="+flags.CPU,
		fmt.Sprintf("-O%d", optLevel),
		"--thread-model=single",
		"-o", objPath,
		irPath,
	)
}

// AvrGCC links objPath together with any extraObjs (such as prebuilt Arduino core library objects)
// into an ELF binary at elfPath. It adds no library of its own; only the objects passed in are
// linked.
func AvrGCC(objPath, elfPath string, flags Flags, extraObjs ...string) error {
	args := []string{"-mmcu=" + flags.CPU, "-o", elfPath, objPath}
	args = append(args, extraObjs...)
	return run("avr-gcc", args...)
}

// ObjCopy converts an ELF binary into the Intel HEX file avrdude consumes.
func ObjCopy(elfPath, hexPath string) error {
	return run("avr-objcopy", "-O", "ihex", "-R", ".eeprom", elfPath, hexPath)
}

// Avrdude invokes `avrdude -c arduino -p <cpu> -P <port> -b <baud> -D -Uflash:w:<hex>:i` to flash
// hexPath onto the connected board, per spec.md §6.
func Avrdude(hexPath string, flags Flags) error {
	return run("avrdude",
		"-c", "arduino",
		"-p", flags.CPU,
		"-P", flags.Port,
		"-b", fmt.Sprintf("%d", flags.Baudrate),
		"-D",
		fmt.Sprintf("-Uflash:w:%s:i", hexPath),
	)
}
