// Package cliopts implements the CLI Driver's argument parsing: a manual flag loop over
// os.Args, grounded on the teacher's util.ParseArgs/printHelp (src/util/args.go), adapted to the
// flags spec.md §6 names instead of VSL's target-architecture switches.
package cliopts

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
)

// Defaults per spec.md §6.
const (
	DefaultOptLevel  = 2
	DefaultBaudrate  = 9600
	DefaultCPU       = "atmega328p"
	appVersion       = "avrc 1.0"
)

// Options holds one invocation's parsed command-line arguments.
type Options struct {
	Src        string // positional source file path.
	UploadTo   string // -u/--upload-to PORT; empty means "don't flash".
	OptLevel   int    // -o/--opt-level, default 2.
	Baudrate   int    // -b/--baudrate, default 9600.
	CPU        string // -c/--cpu, default "atmega328p".
	EmitLLVM   bool   // --emit-llvm: retain the textual IR file beside the source.
	RemoveHex  bool   // --remove-hex: delete the final hex file after upload.
}

// ParseArgs parses a command line (excluding the program name, i.e. os.Args[1:]).
func ParseArgs(args []string) (Options, error) {
	opt := Options{
		OptLevel: DefaultOptLevel,
		Baudrate: DefaultBaudrate,
		CPU:      DefaultCPU,
	}

	var positional []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch a {
		case "-h", "--help":
			PrintHelp()
			return opt, errHelp
		case "-v", "--version":
			fmt.Println(appVersion)
			return opt, errVersion
		case "-u", "--upload-to":
			v, err := takeValue(args, &i, a)
			if err != nil {
				return opt, err
			}
			opt.UploadTo = v
		case "-o", "--opt-level":
			v, err := takeValue(args, &i, a)
			if err != nil {
				return opt, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 || n > 3 {
				return opt, fmt.Errorf("--opt-level must be an integer in [0, 3], got %q", v)
			}
			opt.OptLevel = n
		case "-b", "--baudrate":
			v, err := takeValue(args, &i, a)
			if err != nil {
				return opt, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return opt, fmt.Errorf("--baudrate must be a positive integer, got %q", v)
			}
			opt.Baudrate = n
		case "-c", "--cpu":
			v, err := takeValue(args, &i, a)
			if err != nil {
				return opt, err
			}
			opt.CPU = v
		case "--emit-llvm":
			opt.EmitLLVM = true
		case "--remove-hex":
			opt.RemoveHex = true
		default:
			if strings.HasPrefix(a, "-") {
				return opt, fmt.Errorf("unexpected flag: %s", a)
			}
			positional = append(positional, a)
		}
	}

	switch len(positional) {
	case 0:
		return opt, fmt.Errorf("missing source file path")
	case 1:
		opt.Src = positional[0]
	default:
		return opt, fmt.Errorf("unexpected extra arguments: %s", strings.Join(positional[1:], " "))
	}
	return opt, nil
}

// takeValue consumes the argument following flag at args[*i], advancing *i, or reports a missing-
// value error.
func takeValue(args []string, i *int, flag string) (string, error) {
	if *i+1 >= len(args) {
		return "", fmt.Errorf("got flag %s but no argument", flag)
	}
	*i++
	return args[*i], nil
}

// sentinel errors let the CLI driver distinguish "printed help/version and should exit 0" from a
// genuine argument error.
var (
	errHelp    = &exitSignal{"help requested"}
	errVersion = &exitSignal{"version requested"}
)

type exitSignal struct{ reason string }

func (e *exitSignal) Error() string { return e.reason }

// IsExitSignal reports whether err is the sentinel returned after printing help or version, which
// the CLI driver should treat as a clean exit(0) rather than an error.
func IsExitSignal(err error) bool {
	_, ok := err.(*exitSignal)
	return ok
}

// PrintHelp prints a tabwriter-formatted usage message to stdout, mirroring the teacher's
// printHelp.
func PrintHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	fmt.Fprintln(w, "usage: avrc [flags] <source>")
	fmt.Fprintln(w, "-h, --help\tPrints this help message and exits.")
	fmt.Fprintln(w, "-v, --version\tPrints the application version and exits.")
	fmt.Fprintln(w, "-u, --upload-to PORT\tFlash the compiled program to the board at PORT after a successful build.")
	fmt.Fprintf(w, "-o, --opt-level N\tOptimization level, 0-3. Defaults to %d.\n", DefaultOptLevel)
	fmt.Fprintf(w, "-b, --baudrate N\tFlasher baud rate. Defaults to %d.\n", DefaultBaudrate)
	fmt.Fprintf(w, "-c, --cpu NAME\tTarget MCU identifier. Defaults to %q.\n", DefaultCPU)
	fmt.Fprintln(w, "--emit-llvm\tRetain the textual IR file beside the source.")
	fmt.Fprintln(w, "--remove-hex\tDelete the final hex file after upload.")
	_ = w.Flush()
}
