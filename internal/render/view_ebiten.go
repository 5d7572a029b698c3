//go:build !headless

package render

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
)

// ebitenView pumps ebiten's game loop on its own goroutine and
// translates its input state into InputEvents, the same split
// video_backend_ebiten.go uses between the Ebiten callback thread and
// the engine's own consumer.
type ebitenView struct {
	inputs chan InputEvent
	closed chan struct{}
	once   sync.Once

	width, height int
	lastW, lastH  int

	clipboardOnce sync.Once
	clipboardOK   bool
}

// NewEbitenView opens a window per cfg and starts the ebiten run loop
// on a dedicated goroutine, matching EbitenOutput.Start's pattern.
func NewEbitenView(cfg WindowConfig) (View, error) {
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = 640
	}
	if h <= 0 {
		h = 480
	}

	v := &ebitenView{
		inputs: make(chan InputEvent, 256),
		closed: make(chan struct{}),
		width:  w,
		height: h,
		lastW:  w,
		lastH:  h,
	}

	ebiten.SetWindowSize(w, h)
	title := cfg.Title
	if title == "" {
		title = "yage2"
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(cfg.Resizable)
	ebiten.SetWindowDecorated(cfg.Decorations)
	ebiten.SetRunnableOnUnfocused(true)
	if cfg.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	go func() {
		if err := ebiten.RunGame(v); err != nil {
			fmt.Printf("ebiten run error: %v\n", err)
		}
		v.once.Do(func() { close(v.closed) })
	}()

	return v, nil
}

func (v *ebitenView) push(e InputEvent) {
	select {
	case v.inputs <- e:
	default:
	}
}

// Update implements ebiten.Game; it runs on ebiten's own goroutine and
// only ever pushes into the buffered inputs channel.
func (v *ebitenView) Update() error {
	select {
	case <-v.closed:
		return ebiten.Termination
	default:
	}

	for _, key := range allTrackedKeys {
		if inpututil.IsKeyJustPressed(key) {
			v.push(InputEvent{Kind: InputKeyPress, Key: int(key)})
		}
		if inpututil.IsKeyJustReleased(key) {
			v.push(InputEvent{Kind: InputKeyRelease, Key: int(key)})
		}
	}

	for _, btn := range allTrackedMouseButtons {
		if inpututil.IsMouseButtonJustPressed(btn) {
			v.push(InputEvent{Kind: InputMouseButtonPress, Button: int(btn)})
		}
		if inpututil.IsMouseButtonJustReleased(btn) {
			v.push(InputEvent{Kind: InputMouseButtonRelease, Button: int(btn)})
		}
	}

	x, y := ebiten.CursorPosition()
	v.push(InputEvent{Kind: InputMouseMove, X: float64(x), Y: float64(y)})

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		v.push(InputEvent{Kind: InputMouseScroll, DX: dx, DY: dy})
	}

	w, h := ebiten.WindowSize()
	if w != v.lastW || h != v.lastH {
		v.lastW, v.lastH = w, h
		v.push(InputEvent{Kind: InputResize, W: w, H: h})
	}

	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	return nil
}

func (v *ebitenView) Draw(screen *ebiten.Image) {}

func (v *ebitenView) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}

// Tick reports whether the ebiten run loop is still alive. The pump
// itself runs on ebiten's goroutine; Tick just observes whether it has
// exited.
func (v *ebitenView) Tick() TickResult {
	select {
	case <-v.closed:
		return TickResult{Kind: TickClosed}
	default:
		return TickResult{Kind: TickContinue}
	}
}

func (v *ebitenView) Inputs() <-chan InputEvent { return v.inputs }

func (v *ebitenView) Dispatch(event OutputEvent) {
	switch event.Kind {
	case OutputChangeTitle:
		ebiten.SetWindowTitle(event.Title)
	case OutputChangeWindowSize:
		ebiten.SetWindowSize(event.W, event.H)
	case OutputChangeResizable:
		ebiten.SetWindowResizable(event.Enabled)
	case OutputChangeDecorations:
		ebiten.SetWindowDecorated(event.Enabled)
	case OutputChangeFullscreen:
		ebiten.SetFullscreen(event.Enabled)
	case OutputChangeCursor:
		if event.CursorName == "hidden" {
			ebiten.SetCursorMode(ebiten.CursorModeHidden)
		} else {
			ebiten.SetCursorMode(ebiten.CursorModeVisible)
		}
	}
}

// PasteText reads clipboard text the same way handleClipboardPaste
// does: lazily initialized, guarded by a sticky ok flag.
func (v *ebitenView) PasteText() (string, error) {
	v.clipboardOnce.Do(func() {
		v.clipboardOK = clipboard.Init() == nil
	})
	if !v.clipboardOK {
		return "", newErr("paste_text", KindViewTickError, "clipboard unavailable")
	}
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (v *ebitenView) Close() error {
	v.once.Do(func() { close(v.closed) })
	return nil
}

var allTrackedKeys = []ebiten.Key{
	ebiten.KeyEnter, ebiten.KeyNumpadEnter, ebiten.KeyBackspace, ebiten.KeyTab,
	ebiten.KeyEscape, ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowRight,
	ebiten.KeyArrowLeft, ebiten.KeyHome, ebiten.KeyEnd, ebiten.KeyDelete,
	ebiten.KeySpace, ebiten.KeyShiftLeft, ebiten.KeyShiftRight,
	ebiten.KeyControlLeft, ebiten.KeyControlRight,
}

var allTrackedMouseButtons = []ebiten.MouseButton{
	ebiten.MouseButtonLeft, ebiten.MouseButtonRight, ebiten.MouseButtonMiddle,
}
