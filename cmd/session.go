package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/klippa-app/hsi-cli/display"
	"github.com/klippa-app/hsi-cli/imageio"
	"github.com/klippa-app/hsi-cli/internal/logging"
	"github.com/klippa-app/hsi-cli/pdf"
	"github.com/klippa-app/hsi-cli/pixel"
	"github.com/klippa-app/hsi-cli/samples"
	"github.com/klippa-app/hsi-cli/slider"
	"github.com/klippa-app/hsi-cli/version"
)

var (
	// Used for flags.
	preview bool
	columns int
)

func init() {
	addPDFOptions(sessionCmd)
	addOutputOptions(sessionCmd)
	sessionCmd.Flags().BoolVarP(&preview, "preview", "", isatty.IsTerminal(os.Stdout.Fd()), "Draw the input and output images in the terminal after they change. Needs a 24-bit colour terminal.")
	sessionCmd.Flags().IntVarP(&columns, "columns", "", display.DefaultColumns, "Width of the image previews in characters.")

	rootCmd.AddCommand(sessionCmd)
}

var sessionCmd = &cobra.Command{
	Use:   "session [input]",
	Short: "Adjust an image interactively",
	Long:  "Start an interactive session that reads commands from stdin. Drag and release the sliders to recolour the output image, then save it. Type help for the list of commands.\n[input] is an optional image or PDF to open at the start.",
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
			return newExitCodeError(err, ExitCodeInvalidArguments)
		}

		if len(args) == 1 {
			if args[0] == stdFilename {
				return newExitCodeError(errors.New("stdin holds the session commands, give a file as input"), ExitCodeInvalidInput)
			}
			if err := validFile(args[0]); err != nil {
				return fmt.Errorf("could not open input file %s: %w", args[0], newExitCodeError(err, ExitCodeInvalidInput))
			}
		}

		if columns < 1 {
			return newExitCodeError(fmt.Errorf("columns %d should be at least 1", columns), ExitCodeInvalidArguments)
		}

		return validOutputOptions()
	},
	Run: func(cmd *cobra.Command, args []string) {
		defer pdf.ClosePdfium()

		s, err := newSession(cmd)
		if err != nil {
			handleError(cmd, err, ExitCodeInvalidArguments)
			return
		}

		if len(args) == 1 {
			s.exec("open " + args[0])
		}

		prompt := isatty.IsTerminal(os.Stdin.Fd())
		if err := s.run(cmd.InOrStdin(), prompt); err != nil {
			handleError(cmd, err, ExitCodeInvalidInput)
			return
		}
	},
}

// terminalView keeps what a window would show and prints it on flush.
type terminalView struct {
	w        io.Writer
	term     *display.Terminal
	readouts [slider.NumSliders]int
	status   string

	input, output        *pixel.Buffer
	inputDirty, outDirty bool
	statusDirty          bool
}

func newTerminalView(w io.Writer, state slider.State, term *display.Terminal) *terminalView {
	v := &terminalView{w: w, term: term}
	for sl := slider.Red; sl <= slider.Intensity; sl++ {
		v.readouts[sl] = state.Value(sl)
	}
	return v
}

func (v *terminalView) ShowInput(b *pixel.Buffer) {
	v.input = b
	v.inputDirty = true
}

func (v *terminalView) ShowOutput(b *pixel.Buffer) {
	v.output = b
	v.outDirty = true
}

func (v *terminalView) ShowReadout(s slider.Slider, value int) {
	v.readouts[s] = value
}

func (v *terminalView) ShowStatus(msg string) {
	v.status = msg
	v.statusDirty = true
}

// flush draws the images and the status line if they changed since the last
// flush.
func (v *terminalView) flush() error {
	if v.term != nil {
		if v.inputDirty {
			if err := v.draw("input", v.input); err != nil {
				return err
			}
		}
		if v.outDirty {
			if err := v.draw("output", v.output); err != nil {
				return err
			}
		}
	}
	v.inputDirty, v.outDirty = false, false

	if v.statusDirty && v.status != "" {
		v.statusDirty = false
		_, err := fmt.Fprintln(v.w, v.status)
		return err
	}
	return nil
}

func (v *terminalView) draw(title string, b *pixel.Buffer) error {
	if b == nil {
		return v.term.Clear(title)
	}
	if _, err := fmt.Fprintf(v.w, "%s (%dx%d):\n", title, b.Width(), b.Height()); err != nil {
		return err
	}
	return v.term.Render(b)
}

// readoutLine prints every slider value as its LCD readout.
func (v *terminalView) readoutLine() string {
	parts := make([]string, 0, slider.NumSliders)
	for s := slider.Red; s <= slider.Intensity; s++ {
		parts = append(parts, strings.ToUpper(s.String()[:1])+": "+display.Readout(v.readouts[s]))
	}
	return strings.Join(parts, "  ")
}

type session struct {
	cmd  *cobra.Command
	ctrl *slider.Controller
	view *terminalView
	done bool
}

func newSession(cmd *cobra.Command) (*session, error) {
	state, err := newSliderState()
	if err != nil {
		return nil, newExitCodeError(err, ExitCodeInvalidArguments)
	}

	var term *display.Terminal
	if preview {
		term = display.NewTerminal(cmd.OutOrStdout(), columns)
	}

	view := newTerminalView(cmd.OutOrStdout(), state, term)
	return &session{
		cmd:  cmd,
		ctrl: slider.NewController(state, view),
		view: view,
	}, nil
}

// run executes one command per input line until quit or end of input.
func (s *session) run(r io.Reader, prompt bool) error {
	scanner := bufio.NewScanner(r)
	for !s.done {
		if prompt {
			s.cmd.Print("hsi> ")
		}
		if !scanner.Scan() {
			break
		}
		s.exec(scanner.Text())
	}
	return scanner.Err()
}

// exec runs a single command line. Errors are printed and never end the
// session.
func (s *session) exec(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return
	}

	name, args := strings.ToLower(fields[0]), fields[1:]
	c, ok := sessionCommands[name]
	if !ok {
		s.cmd.PrintErrf("unknown command %q, type help for the list of commands\n", name)
		return
	}

	if err := c.run(s, args); err != nil {
		logging.Logger().Debug("session command failed", "command", name, "error", err)
		s.cmd.PrintErrln(err)
	}

	if err := s.view.flush(); err != nil {
		logging.Logger().Warn("could not update terminal", "error", err)
	}
}

func (s *session) encode(path string, b *pixel.Buffer) error {
	return imageio.EncodeFile(path, b, outputOptions(path))
}

type sessionCommand struct {
	args string
	help string
	run  func(s *session, args []string) error
}

var sessionCommands map[string]sessionCommand

func init() {
	sessionCommands = map[string]sessionCommand{
		"open": {
			args: "<path>",
			help: "Open an image or a PDF page, see --page and --dpi.",
			run: func(s *session, args []string) error {
				if len(args) == 0 {
					s.ctrl.Cancel("open")
					return nil
				}
				path := strings.Join(args, " ")
				if path == stdFilename {
					return errors.New("stdin holds the session commands, open a file instead")
				}
				return s.ctrl.Open(path, func() (*pixel.Buffer, error) {
					return loadImage(s.cmd, path)
				})
			},
		},
		"list": {
			help: "List the built-in images.",
			run: func(s *session, args []string) error {
				for _, sample := range samples.List() {
					s.cmd.Printf("%-14s %s\n", sample.Name, sample.Title)
				}
				return nil
			},
		},
		"open-default": {
			args: "<name>",
			help: "Open one of the built-in images.",
			run: func(s *session, args []string) error {
				if len(args) == 0 {
					s.ctrl.Cancel("open")
					return nil
				}
				sample, err := samples.Lookup(strings.Join(args, " "))
				if err != nil {
					return err
				}
				return s.ctrl.OpenDefault(sample.Name, func() (*pixel.Buffer, error) {
					return sample.Generate(), nil
				})
			},
		},
		"flat": {
			args: "<intensity>",
			help: "Open a flat grey image of intensity 0 to 255.",
			run: func(s *session, args []string) error {
				if len(args) != 1 {
					return errors.New("flat needs one intensity")
				}
				intensity, err := strconv.Atoi(args[0])
				if err != nil || intensity < 0 || intensity > 255 {
					return fmt.Errorf("intensity %s is not between 0 and 255", args[0])
				}
				s.ctrl.OpenFlat(intensity)
				return nil
			},
		},
		"reset": {
			help: "Clear the input and output images.",
			run: func(s *session, args []string) error {
				if err := s.ctrl.Reset(); err != nil && !errors.Is(err, slider.ErrNoImage) {
					return err
				}
				return nil
			},
		},
		"close": {
			help: "Close the image and move every slider back to its start.",
			run: func(s *session, args []string) error {
				s.ctrl.Close()
				return nil
			},
		},
		"save": {
			help: "Save the output image as " + slider.TempFilename + " in --save-dir.",
			run: func(s *session, args []string) error {
				_, err := s.ctrl.Save(saveDir, s.encode)
				if errors.Is(err, slider.ErrNoImage) {
					return nil
				}
				return err
			},
		},
		"save-as": {
			args: "<path>",
			help: "Save the output image to path, png or jpeg by extension.",
			run: func(s *session, args []string) error {
				if len(args) == 0 {
					s.ctrl.Cancel("save")
					return nil
				}
				err := s.ctrl.SaveAs(strings.Join(args, " "), s.encode)
				if errors.Is(err, slider.ErrNoImage) {
					return nil
				}
				return err
			},
		},
		"drag": {
			args: "<slider> <value>",
			help: "Move a slider without recolouring the image.",
			run: func(s *session, args []string) error {
				sl, value, err := parseSliderValue(args)
				if err != nil {
					return err
				}
				s.ctrl.Dispatch(slider.Event{Kind: slider.ValueChanged, Slider: sl, Value: value})
				return nil
			},
		},
		"release": {
			args: "<slider>",
			help: "Let go of a slider and recolour the output image.",
			run: func(s *session, args []string) error {
				if len(args) != 1 {
					return errors.New("release needs a slider")
				}
				sl, err := slider.ParseSlider(args[0])
				if err != nil {
					return err
				}
				s.ctrl.Dispatch(slider.Event{Kind: slider.Released, Slider: sl})
				return nil
			},
		},
		"set": {
			args: "<slider> <value>",
			help: "Drag and release a slider in one go.",
			run: func(s *session, args []string) error {
				sl, value, err := parseSliderValue(args)
				if err != nil {
					return err
				}
				s.ctrl.Dispatch(slider.Event{Kind: slider.ValueChanged, Slider: sl, Value: value})
				s.ctrl.Dispatch(slider.Event{Kind: slider.Released, Slider: sl})
				return nil
			},
		},
		"show": {
			help: "Print the slider readouts and draw both images.",
			run: func(s *session, args []string) error {
				s.cmd.Println(s.view.readoutLine())
				if s.view.term != nil {
					s.view.inputDirty, s.view.outDirty = true, true
				}
				return nil
			},
		},
		"status": {
			help: "Print the status line.",
			run: func(s *session, args []string) error {
				if s.ctrl.Status() == "" {
					s.cmd.Println("Ready")
				}
				s.view.statusDirty = true
				return nil
			},
		},
		"about": {
			help: "Show the program version.",
			run: func(s *session, args []string) error {
				s.ctrl.Notify("Help", "About", "hsi "+version.VERSION+", adjust images with RGB and HSI sliders")
				return nil
			},
		},
		"about-author": {
			help: "Show who maintains the program.",
			run: func(s *session, args []string) error {
				s.ctrl.Notify("Help", "About Author", "Maintained by Klippa App B.V.")
				return nil
			},
		},
		"help": {
			help: "Print this list.",
			run: func(s *session, args []string) error {
				names := make([]string, 0, len(sessionCommands))
				for name := range sessionCommands {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					c := sessionCommands[name]
					s.cmd.Printf("  %-28s %s\n", strings.TrimSpace(name+" "+c.args), c.help)
				}
				s.cmd.Println("Sliders are red, green, blue, hue, saturation and intensity, or their first letter.")
				return nil
			},
		},
		"quit": {
			help: "End the session.",
			run:  quit,
		},
		"exit": {
			help: "End the session.",
			run:  quit,
		},
	}
}

func quit(s *session, args []string) error {
	s.ctrl.Notify("File", "Quit", "Bye")
	s.done = true
	return nil
}

func parseSliderValue(args []string) (slider.Slider, int, error) {
	if len(args) != 2 {
		return 0, 0, errors.New("need a slider and a value")
	}
	sl, err := slider.ParseSlider(args[0])
	if err != nil {
		return 0, 0, err
	}
	value, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("slider value %s is not a number", args[1])
	}
	return sl, value, nil
}
