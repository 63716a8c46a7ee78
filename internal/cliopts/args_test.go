package cliopts

import "testing"

func TestParseArgsDefaults(t *testing.T) {
	opt, err := ParseArgs([]string{"prog.ard"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if opt.Src != "prog.ard" {
		t.Errorf("Src = %q, want %q", opt.Src, "prog.ard")
	}
	if opt.OptLevel != DefaultOptLevel {
		t.Errorf("OptLevel = %d, want %d", opt.OptLevel, DefaultOptLevel)
	}
	if opt.Baudrate != DefaultBaudrate {
		t.Errorf("Baudrate = %d, want %d", opt.Baudrate, DefaultBaudrate)
	}
	if opt.CPU != DefaultCPU {
		t.Errorf("CPU = %q, want %q", opt.CPU, DefaultCPU)
	}
	if opt.UploadTo != "" || opt.EmitLLVM || opt.RemoveHex {
		t.Error("unset flags should keep their zero values")
	}
}

func TestParseArgsFlags(t *testing.T) {
	opt, err := ParseArgs([]string{"-u", "/dev/ttyACM0", "--opt-level", "3", "-b", "115200", "--cpu", "atmega2560", "--emit-llvm", "--remove-hex", "blink.ard"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if opt.UploadTo != "/dev/ttyACM0" {
		t.Errorf("UploadTo = %q", opt.UploadTo)
	}
	if opt.OptLevel != 3 {
		t.Errorf("OptLevel = %d, want 3", opt.OptLevel)
	}
	if opt.Baudrate != 115200 {
		t.Errorf("Baudrate = %d, want 115200", opt.Baudrate)
	}
	if opt.CPU != "atmega2560" {
		t.Errorf("CPU = %q, want atmega2560", opt.CPU)
	}
	if !opt.EmitLLVM || !opt.RemoveHex {
		t.Error("expected --emit-llvm and --remove-hex to be set")
	}
	if opt.Src != "blink.ard" {
		t.Errorf("Src = %q, want blink.ard", opt.Src)
	}
}

func TestParseArgsRejectsOutOfRangeOptLevel(t *testing.T) {
	if _, err := ParseArgs([]string{"--opt-level", "9", "a.ard"}); err == nil {
		t.Fatal("expected an error for an out-of-range optimization level")
	}
}

func TestParseArgsRejectsMissingSource(t *testing.T) {
	if _, err := ParseArgs([]string{"--opt-level", "1"}); err == nil {
		t.Fatal("expected an error for a missing source path")
	}
}

func TestParseArgsRejectsExtraPositional(t *testing.T) {
	if _, err := ParseArgs([]string{"a.ard", "b.ard"}); err == nil {
		t.Fatal("expected an error for extra positional arguments")
	}
}

func TestParseArgsHelpIsExitSignal(t *testing.T) {
	_, err := ParseArgs([]string{"--help"})
	if err == nil || !IsExitSignal(err) {
		t.Fatal("expected --help to return an exit signal error")
	}
}
