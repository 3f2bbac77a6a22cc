package slider

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/klippa-app/hsi-cli/adjust"
	"github.com/klippa-app/hsi-cli/internal/logging"
	"github.com/klippa-app/hsi-cli/pixel"
)

// TempFilename is the file written by Save.
const TempFilename = "_tmp.png"

// ErrNoImage is returned by operations that need a loaded image.
var ErrNoImage = errors.New("no image loaded")

// View is what the controller drives. A nil buffer clears the view.
type View interface {
	ShowInput(b *pixel.Buffer)
	ShowOutput(b *pixel.Buffer)
	ShowReadout(s Slider, value int)
	ShowStatus(msg string)
}

type nopView struct{}

func (nopView) ShowInput(*pixel.Buffer)  {}
func (nopView) ShowOutput(*pixel.Buffer) {}
func (nopView) ShowReadout(Slider, int)  {}
func (nopView) ShowStatus(string)        {}

// EventKind distinguishes continuous slider motion from the final release.
type EventKind int

const (
	// ValueChanged is sent while a slider moves. It only updates the readout.
	ValueChanged EventKind = iota
	// Released is sent once when a slider is let go. It recolors the output.
	Released
)

func (k EventKind) String() string {
	switch k {
	case ValueChanged:
		return "value-changed"
	case Released:
		return "released"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a slider interaction. Value is only read for ValueChanged.
type Event struct {
	Kind   EventKind
	Slider Slider
	Value  int
}

// DecodeFunc produces a new input image.
type DecodeFunc func() (*pixel.Buffer, error)

// EncodeFunc writes b to path.
type EncodeFunc func(path string, b *pixel.Buffer) error

// Controller owns the input and output images and the slider state. Every
// method must be called from the same goroutine.
type Controller struct {
	state    State
	defaults State
	driving  Group

	input  *pixel.Buffer
	output *pixel.Buffer

	view     View
	status   string
	handlers map[EventKind]func(Event)
}

// NewController returns a controller starting from state. A nil view is
// allowed.
func NewController(state State, view View) *Controller {
	if view == nil {
		view = nopView{}
	}
	c := &Controller{
		state:    state,
		defaults: state,
		view:     view,
	}
	c.handlers = map[EventKind]func(Event){
		ValueChanged: c.onValueChanged,
		Released:     c.onReleased,
	}
	return c
}

// State returns a copy of the current slider state.
func (c *Controller) State() State { return c.state }

// Driving returns the group whose last release is authoritative.
func (c *Controller) Driving() Group { return c.driving }

// Loaded reports whether an image is open.
func (c *Controller) Loaded() bool { return c.input != nil }

// Input returns the original image, or nil.
func (c *Controller) Input() *pixel.Buffer { return c.input }

// Output returns the adjusted image, or nil.
func (c *Controller) Output() *pixel.Buffer { return c.output }

// Status returns the current status line.
func (c *Controller) Status() string { return c.status }

// Dispatch handles one slider event. Unknown events and sliders are ignored.
func (c *Controller) Dispatch(ev Event) {
	h, ok := c.handlers[ev.Kind]
	if !ok || !ev.Slider.Valid() {
		logging.Logger().Warn("ignoring slider event", "kind", ev.Kind, "slider", ev.Slider)
		return
	}
	h(ev)
}

func (c *Controller) onValueChanged(ev Event) {
	v := c.state.Set(ev.Slider, ev.Value)
	c.view.ShowReadout(ev.Slider, v)
	c.colorStatus()
}

func (c *Controller) onReleased(ev Event) {
	switch ev.Slider.Group() {
	case RGBDriving:
		c.releaseRGB(ev.Slider)
	case HSIDriving:
		c.releaseHSI()
	}
}

// releaseRGB scales one channel of the input and derives the HSI sliders from
// the three RGB slider fractions.
func (c *Controller) releaseRGB(s Slider) {
	c.driving = RGBDriving
	scale := c.state.Fraction(s)

	if c.Loaded() {
		c.output = adjust.Apply(c.input, adjust.Single(s.channel(), scale))
		c.view.ShowOutput(c.output)
	}

	c.state = c.state.WithHSIFromRGB()
	c.showReadouts(Hue, Saturation, Intensity)

	logging.Logger().Debug("rgb slider released", "slider", s, "scale", scale, "state", c.state.String())
	c.colorStatus()
	if !c.Loaded() {
		c.appendStatus(" >> No data loaded.")
	}
}

// releaseHSI derives the RGB sliders from the HSI sliders and scales all
// three channels of the input with them.
func (c *Controller) releaseHSI() {
	c.driving = HSIDriving

	c.state = c.state.WithRGBFromHSI()
	c.showReadouts(Red, Green, Blue)

	if c.Loaded() {
		c.output = adjust.Apply(c.input, c.state.Scales())
		c.view.ShowOutput(c.output)
	}

	logging.Logger().Debug("hsi slider released", "state", c.state.String())
	c.colorStatus()
	if !c.Loaded() {
		c.appendStatus(" >> No data loaded.")
	}
}

func (c *Controller) showReadouts(sliders ...Slider) {
	for _, s := range sliders {
		c.view.ShowReadout(s, c.state.Value(s))
	}
}

// Open replaces the input and output images with the result of decode. On
// failure both images stay as they were.
func (c *Controller) Open(source string, decode DecodeFunc) error {
	c.menuStatus("File", "Open")
	c.appendStatus("Loading from file ... " + source)
	return c.open(source, decode)
}

// OpenDefault is Open for an image picked from the built-in list.
func (c *Controller) OpenDefault(name string, decode DecodeFunc) error {
	c.menuStatus("File", "Open from Image List")
	c.appendStatus("Loading from default list ... " + name)
	return c.open(name, decode)
}

func (c *Controller) open(source string, decode DecodeFunc) error {
	b, err := decode()
	if err != nil {
		logging.Logger().Warn("could not open image", "source", source, "error", err)
		c.appendStatus(" ... failed: " + err.Error())
		return fmt.Errorf("could not open %s: %w", source, err)
	}

	c.load(b)
	logging.Logger().Info("opened image", "source", source, "width", b.Width(), "height", b.Height())
	return nil
}

// OpenFlat loads a synthetic flat image of the given intensity.
func (c *Controller) OpenFlat(intensity int) {
	c.menuStatus("File", "Open from Image List")
	c.appendStatus(fmt.Sprintf("Loading flat intensity ... %d", intensity))
	c.load(pixel.NewFlat(intensity))
}

func (c *Controller) load(b *pixel.Buffer) {
	c.input = b
	c.output = b.Clone()
	c.view.ShowInput(c.input)
	c.view.ShowOutput(c.output)
}

// Reset clears both views. The image is unloaded.
func (c *Controller) Reset() error {
	c.menuStatus("File", "Reset")
	if !c.Loaded() {
		c.appendStatus("No data loaded.")
		return ErrNoImage
	}
	c.clear()
	c.appendStatus("Images cleared")
	return nil
}

// Close discards the current image and returns every slider to its starting
// position.
func (c *Controller) Close() {
	c.menuStatus("File", "Close")
	if c.Loaded() {
		c.clear()
	}
	c.state = c.defaults
	c.driving = NoneDriving
	c.showReadouts(Red, Green, Blue, Hue, Saturation, Intensity)
	c.appendStatus("Closed")
}

func (c *Controller) clear() {
	c.input, c.output = nil, nil
	c.view.ShowInput(nil)
	c.view.ShowOutput(nil)
}

// Save writes the output image to TempFilename inside dir and returns the
// path.
func (c *Controller) Save(dir string, encode EncodeFunc) (string, error) {
	c.menuStatus("File", "Save")
	path := filepath.Join(dir, TempFilename)
	return path, c.save(path, encode)
}

// SaveAs writes the output image to path.
func (c *Controller) SaveAs(path string, encode EncodeFunc) error {
	c.menuStatus("File", "Save As...")
	return c.save(path, encode)
}

func (c *Controller) save(path string, encode EncodeFunc) error {
	if !c.Loaded() {
		c.appendStatus("No data loaded, save canceled.")
		return ErrNoImage
	}

	c.appendStatus("Saving to file ... " + path)
	if err := encode(path, c.output); err != nil {
		logging.Logger().Warn("could not save image", "path", path, "error", err)
		c.appendStatus(" ... failed: " + err.Error())
		return fmt.Errorf("could not save %s: %w", path, err)
	}

	logging.Logger().Info("saved image", "path", path)
	return nil
}

// Cancel records that a dialog was dismissed.
func (c *Controller) Cancel(what string) {
	c.appendStatus(" ... " + what + " canceled")
}

// Notify shows a menu status line, e.g. for the about actions.
func (c *Controller) Notify(menu, item, msg string) {
	c.menuStatus(menu, item)
	c.appendStatus(msg)
}

func (c *Controller) menuStatus(menu, item string) {
	c.setStatus(menu + " >> " + item + " >> ")
}

func (c *Controller) appendStatus(s string) {
	c.setStatus(c.status + s)
}

func (c *Controller) colorStatus() {
	c.setStatus("Color adjusted >>\t" + c.state.String())
}

func (c *Controller) setStatus(s string) {
	c.status = s
	c.view.ShowStatus(s)
}
