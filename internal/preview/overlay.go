package preview

import (
	"sync"
	"time"

	"fieldserve_backend/internal/models"
)

// Mode selects how the overlay renders the current attachment.
type Mode string

const (
	ModeImage       Mode = "image"
	ModeDocument    Mode = "document"
	ModeUnsupported Mode = "unsupported"
)

func modeFor(class models.MediaClass) Mode {
	switch class {
	case models.MediaClassImage:
		return ModeImage
	case models.MediaClassDocument:
		return ModeDocument
	default:
		return ModeUnsupported
	}
}

// Content identifies what the overlay is showing.
type Content struct {
	AttachmentID string `json:"attachment_id"`
	URL          string `json:"url"`
	DisplayName  string `json:"display_name"`
	Mode         Mode   `json:"mode"`
}

// Overlay wraps an Engine with open/close lifecycle. Closing schedules
// the gesture reset after a short delay so a closing animation does not
// snap the image before the overlay is hidden; reopening cancels a
// pending reset and resets immediately instead.
type Overlay struct {
	mu         sync.Mutex
	engine     *Engine
	open       bool
	content    Content
	resetDelay time.Duration
	resetTimer *time.Timer
}

func NewOverlay(resetDelay time.Duration) *Overlay {
	return &Overlay{
		engine:     NewEngine(),
		resetDelay: resetDelay,
	}
}

// Open shows an attachment. Switching attachments while open always
// begins from the reset state.
func (o *Overlay) Open(id, url, displayName string, class models.MediaClass) Content {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.resetTimer != nil {
		o.resetTimer.Stop()
		o.resetTimer = nil
	}
	o.engine.Reset()
	o.open = true
	o.content = Content{
		AttachmentID: id,
		URL:          url,
		DisplayName:  displayName,
		Mode:         modeFor(class),
	}
	return o.content
}

// Close hides the overlay and schedules the gesture reset.
func (o *Overlay) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.open {
		return
	}
	o.open = false
	o.content = Content{}

	if o.resetTimer != nil {
		o.resetTimer.Stop()
	}
	o.resetTimer = time.AfterFunc(o.resetDelay, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if !o.open {
			o.engine.Reset()
		}
		o.resetTimer = nil
	})
}

func (o *Overlay) IsOpen() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.open
}

func (o *Overlay) Content() Content {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.content
}

// Gestures only apply while an image is showing; other modes have no
// interactive state.
func (o *Overlay) interactive() bool {
	return o.open && o.content.Mode == ModeImage
}

func (o *Overlay) ZoomIn() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.interactive() {
		o.engine.ZoomIn()
	}
}

func (o *Overlay) ZoomOut() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.interactive() {
		o.engine.ZoomOut()
	}
}

func (o *Overlay) PointerDown(p Point) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.interactive() {
		o.engine.PointerDown(p)
	}
}

func (o *Overlay) PointerMove(p Point) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.interactive() {
		o.engine.PointerMove(p)
	}
}

func (o *Overlay) PointerUp() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.interactive() {
		o.engine.PointerUp()
	}
}

func (o *Overlay) PinchStart(a, b Point) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.interactive() {
		o.engine.PinchStart(a, b)
	}
}

func (o *Overlay) PinchMove(a, b Point) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.interactive() {
		o.engine.PinchMove(a, b)
	}
}

func (o *Overlay) PinchEnd() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.interactive() {
		o.engine.PinchEnd()
	}
}

// State is a snapshot of the overlay sent to clients after each event.
type State struct {
	Open      bool    `json:"open"`
	Content   Content `json:"content"`
	Zoom      float64 `json:"zoom"`
	Pan       Point   `json:"pan"`
	IsPanning bool    `json:"is_panning"`
	Transform string  `json:"transform"`
}

func (o *Overlay) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return State{
		Open:      o.open,
		Content:   o.content,
		Zoom:      o.engine.Zoom,
		Pan:       o.engine.Pan,
		IsPanning: o.engine.IsPanning,
		Transform: o.engine.Transform(),
	}
}
