package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/klippa-app/hsi-cli/display"
	"github.com/klippa-app/hsi-cli/imageio"
	"github.com/klippa-app/hsi-cli/pixel"
	"github.com/klippa-app/hsi-cli/slider"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"plain error uses default", errors.New("boom"), ExitCodeInvalidOutput},
		{"exit code error", fmt.Errorf("wrapped: %w", newExitCodeError(errors.New("boom"), ExitCodeInvalidInput)), ExitCodeInvalidInput},
		{"decode error", fmt.Errorf("could not open: %w", &imageio.DecodeError{Source: "a.png", Err: errors.New("bad")}), ExitCodeDecodeError},
		{"encode error", &imageio.EncodeError{Path: "a.png", Err: errors.New("bad")}, ExitCodeEncodeError},
		{"pdfium password", newPdfiumError(errors.New("4: password required")), ExitCodePdfiumPasswordError},
		{"pdfium wrapped page error", newPdfiumError(fmt.Errorf("could not render: %w", errors.New("6: page not found"))), ExitCodePdfiumPageError},
		{"pdfium unknown", newPdfiumError(errors.New("boom")), ExitCodePdfiumError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err, ExitCodeInvalidOutput); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseTriple(t *testing.T) {
	v, err := parseTriple([]string{"1", "0.5", "0"})
	if err != nil {
		t.Fatal(err)
	}
	if v != [3]float64{1, 0.5, 0} {
		t.Errorf("got %v", v)
	}

	if _, err := parseTriple([]string{"1", "half", "0"}); err == nil {
		t.Error("expected an error for a non-numeric value")
	}
}

func TestParseSliderValue(t *testing.T) {
	s, v, err := parseSliderValue([]string{"h", "40"})
	if err != nil {
		t.Fatal(err)
	}
	if s != slider.Hue || v != 40 {
		t.Errorf("got %s %d, want hue 40", s, v)
	}

	for _, args := range [][]string{{"red"}, {"purple", "1"}, {"red", "x"}} {
		if _, _, err := parseSliderValue(args); err == nil {
			t.Errorf("parseSliderValue(%q) expected an error", args)
		}
	}
}

func adjustCommand(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	addSliderOptions(c)
	for name, value := range flags {
		if err := c.Flags().Set(name, value); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func TestNewAdjustmentRejectsMixedGroups(t *testing.T) {
	_, err := newAdjustment(adjustCommand(t, map[string]string{"red": "10", "hue": "10"}))
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := exitCode(err, 0); got != ExitCodeInvalidArguments {
		t.Errorf("exit code %d, want %d", got, ExitCodeInvalidArguments)
	}
}

func TestAdjustmentApply(t *testing.T) {
	tests := []struct {
		name      string
		flags     map[string]string
		wantRGB   [3]uint8
		wantState string
	}{
		{
			name:      "no sliders keeps the image",
			flags:     map[string]string{},
			wantRGB:   [3]uint8{128, 128, 128},
			wantState: "RGB: [ 255, 255, 255 ]\t>>\tHSI: [ 100, 100, 100 ]",
		},
		{
			name:      "single red slider",
			flags:     map[string]string{"red": "0"},
			wantRGB:   [3]uint8{0, 128, 128},
			wantState: "RGB: [ 0, 255, 255 ]\t>>\tHSI: [ 50, 100, 67 ]",
		},
		{
			name:      "red and green together",
			flags:     map[string]string{"red": "0", "green": "0"},
			wantRGB:   [3]uint8{0, 0, 128},
			wantState: "RGB: [ 0, 0, 255 ]\t>>\tHSI: [ 67, 100, 33 ]",
		},
		{
			name:      "intensity",
			flags:     map[string]string{"intensity": "50"},
			wantRGB:   [3]uint8{128, 0, 0},
			wantState: "RGB: [ 255, 0, 0 ]\t>>\tHSI: [ 100, 100, 50 ]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := newAdjustment(adjustCommand(t, tt.flags))
			if err != nil {
				t.Fatal(err)
			}

			out, state := a.apply(pixel.NewFlat(128))
			r, g, b := out.RGB(10, 10)
			if got := [3]uint8{r, g, b}; got != tt.wantRGB {
				t.Errorf("pixel = %v, want %v", got, tt.wantRGB)
			}
			if state.String() != tt.wantState {
				t.Errorf("state = %q, want %q", state, tt.wantState)
			}
		})
	}
}

func testSession(t *testing.T) (*session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	preview = false

	var stdout, stderr bytes.Buffer
	c := &cobra.Command{Use: "session"}
	c.SetOut(&stdout)
	c.SetErr(&stderr)

	s, err := newSession(c)
	if err != nil {
		t.Fatal(err)
	}
	return s, &stdout, &stderr
}

func TestSessionScript(t *testing.T) {
	s, stdout, stderr := testSession(t)
	out := filepath.Join(t.TempDir(), "out.png")

	script := strings.Join([]string{
		"# comments and blank lines are skipped",
		"",
		"flat 200",
		"set red 0",
		"show",
		"save-as " + out,
		"close",
		"release red",
		"bogus",
		"quit",
		"flat 10",
	}, "\n")

	if err := s.run(strings.NewReader(script), false); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"File >> Open from Image List >> Loading flat intensity ... 200",
		"Color adjusted >>\tRGB: [ 0, 255, 255 ]\t>>\tHSI: [ 50, 100, 67 ]",
		"R:   0  G: 255  B: 255  H:  50  S: 100  I:  67",
		"File >> Save As... >> Saving to file ... " + out,
		"File >> Close >> Closed",
		"Color adjusted >>\tRGB: [ 255, 255, 255 ]\t>>\tHSI: [ 0, 0, 100 ] >> No data loaded.",
		"File >> Quit >> Bye",
	} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output is missing %q:\n%s", want, stdout.String())
		}
	}

	if strings.Contains(stdout.String(), "Loading flat intensity ... 10") {
		t.Error("commands after quit should not run")
	}
	if !strings.Contains(stderr.String(), `unknown command "bogus"`) {
		t.Errorf("expected an unknown command error, got %q", stderr.String())
	}

	saved, err := imageio.DecodeFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if r, g, b := saved.RGB(0, 0); r != 0 || g != 200 || b != 200 {
		t.Errorf("saved pixel = %d,%d,%d, want 0,200,200", r, g, b)
	}
}

func TestSessionSaveWithoutImage(t *testing.T) {
	s, stdout, _ := testSession(t)
	saveDir = t.TempDir()

	s.exec("save")
	if !strings.Contains(stdout.String(), "File >> Save >> No data loaded, save canceled.") {
		t.Errorf("unexpected output %q", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(saveDir, slider.TempFilename)); !os.IsNotExist(err) {
		t.Errorf("expected no file to be written, got %v", err)
	}

	s.exec("open-default color bars (rgb)")
	s.exec("save")
	if _, err := os.Stat(filepath.Join(saveDir, slider.TempFilename)); err != nil {
		t.Errorf("expected %s to be written: %v", slider.TempFilename, err)
	}
}

func TestSessionCancel(t *testing.T) {
	s, stdout, _ := testSession(t)

	s.exec("about")
	s.exec("open")
	if !strings.Contains(stdout.String(), "Help >> About >> hsi ") {
		t.Errorf("missing about status in %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), " ... open canceled") {
		t.Errorf("missing cancel status in %q", stdout.String())
	}
}

func TestSessionOpenStdinRefused(t *testing.T) {
	s, _, stderr := testSession(t)

	s.exec("open -")
	if s.ctrl.Loaded() {
		t.Error("expected nothing to be loaded")
	}
	if !strings.Contains(stderr.String(), "stdin") {
		t.Errorf("unexpected error output %q", stderr.String())
	}
}

func TestTerminalViewPreview(t *testing.T) {
	var buf bytes.Buffer
	v := newTerminalView(&buf, slider.DefaultState(), display.NewTerminal(&buf, 8))

	v.ShowInput(pixel.NewFlat(50))
	v.ShowOutput(nil)
	v.ShowStatus("ready")
	if err := v.flush(); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	for _, want := range []string{"input (512x256):", "▀", "[output cleared]", "ready\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("preview is missing %q", want)
		}
	}

	buf.Reset()
	if err := v.flush(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("second flush without changes wrote %q", buf.String())
	}
}
