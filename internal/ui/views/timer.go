package views

import (
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/luccascomvoce/temporizador/internal/duration"
	"github.com/luccascomvoce/temporizador/internal/model"
	"github.com/luccascomvoce/temporizador/internal/timer"
	"github.com/luccascomvoce/temporizador/internal/ui/confetti"
	"github.com/luccascomvoce/temporizador/internal/ui/theme"
)

// Layout of the timer block, in cells
const (
	fieldWidth  = 6 // border + padding + two digits
	sepWidth    = 3
	blockWidth  = 3*fieldWidth + 2*sepWidth
	blockHeight = 13

	rowTitle       = 0
	rowStripAbove  = 2
	rowFields      = 3 // three rows: border, digits, border
	rowStripBelow  = 6
	rowProgress    = 8
	rowButton      = 10
	rowStatus      = 12
	frameInterval  = time.Second / 60
	shakeInterval  = 60 * time.Millisecond
	defaultTick    = time.Second
	labelStart     = "Iniciar"
	labelPause     = "Pausar"
	timerViewTitle = "Temporizador"
)

// Horizontal offsets of a rejected-start shake, about 500ms in total
var shakeOffsets = []int{-2, 2, -2, 2, -1, 1, -1, 1}

// TimerHooks run the side effects of the countdown. Either may be nil.
type TimerHooks struct {
	// Completed plays the sound and notifies; planned is the run length.
	Completed func(planned duration.Value) tea.Cmd
	// RunEnded records a run segment that was paused, completed or abandoned.
	RunEnded func(run model.Run) tea.Cmd
}

type timerTickMsg struct{ seq uint64 }
type timerResetMsg struct{ seq uint64 }
type dragFrameMsg struct{ at time.Time }
type confettiFrameMsg struct {
	seq uint64
	at  time.Time
}
type shakeMsg struct {
	seq  uint64
	step int
}

// TimerView shows the three time fields, the start button and the status line
type TimerView struct {
	ctrl   *timer.Controller
	hooks  TimerHooks
	tick   time.Duration
	now    func() time.Time
	rng    *rand.Rand
	width  int
	height int

	resetKey key.Binding

	// Current running segment
	runStarted time.Time
	runPlanned int
	// Largest total of the current countdown, for the progress bar
	progressTotal int

	framing   bool
	lastFrame time.Time

	burst       *confetti.Burst
	burstSeq    uint64
	burstFrame  time.Time
	shakeSeq    uint64
	shakeOffset int

	statusMsg string
	statusErr bool
}

// NewTimerView creates the timer view around a controller. tick <= 0 means one second.
func NewTimerView(ctrl *timer.Controller, tick time.Duration, hooks TimerHooks) TimerView {
	if tick <= 0 {
		tick = defaultTick
	}
	return TimerView{
		ctrl:  ctrl,
		hooks: hooks,
		tick:  tick,
		now:   time.Now,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		resetKey: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "zerar"),
		),
	}
}

// Init initializes the timer view
func (v TimerView) Init() tea.Cmd {
	return nil
}

// SetSize sets the view dimensions
func (v TimerView) SetSize(width, height int) TimerView {
	v.width = width
	v.height = height
	return v
}

// Controller returns the underlying controller
func (v TimerView) Controller() *timer.Controller {
	return v.ctrl
}

// IsInputMode reports whether a field is focused and takes typed characters
func (v TimerView) IsInputMode() bool {
	_, ok := v.ctrl.Focused()
	return ok
}

// Status returns the current status line
func (v TimerView) Status() string {
	return v.statusMsg
}

// Celebrating reports whether confetti is on screen
func (v TimerView) Celebrating() bool {
	return v.burst != nil
}

func tickCmd(seq uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return timerTickMsg{seq: seq}
	})
}

func resetCmd(seq uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return timerResetMsg{seq: seq}
	})
}

func dragFrameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return dragFrameMsg{at: t}
	})
}

func confettiFrameCmd(seq uint64) tea.Cmd {
	return tea.Tick(confetti.FrameInterval, func(t time.Time) tea.Msg {
		return confettiFrameMsg{seq: seq, at: t}
	})
}

func shakeCmd(seq uint64, step int) tea.Cmd {
	return tea.Tick(shakeInterval, func(time.Time) tea.Msg {
		return shakeMsg{seq: seq, step: step}
	})
}

// Update handles messages
func (v TimerView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		effects := v.ctrl.Tick(msg.seq)
		var cmd tea.Cmd
		if v.ctrl.IsRunning() && msg.seq == v.ctrl.RunSeq() {
			cmd = tickCmd(msg.seq, v.tick)
		}
		var effCmd tea.Cmd
		v, effCmd = v.apply(effects)
		return v, tea.Batch(cmd, effCmd)

	case timerResetMsg:
		return v.apply(v.ctrl.ResetElapsed(msg.seq))

	case dragFrameMsg:
		dt := msg.at.Sub(v.lastFrame)
		if dt < 0 || v.lastFrame.IsZero() {
			dt = frameInterval
		}
		v.lastFrame = msg.at
		v.ctrl.AdvanceFrame(dt)
		if v.ctrl.DragActive() {
			return v, dragFrameCmd()
		}
		v.framing = false
		return v, nil

	case confettiFrameMsg:
		if v.burst == nil || msg.seq != v.burstSeq {
			return v, nil
		}
		dt := msg.at.Sub(v.burstFrame)
		if dt <= 0 {
			dt = confetti.FrameInterval
		}
		v.burstFrame = msg.at
		if !v.burst.Step(dt) {
			v.burst = nil
			return v, nil
		}
		return v, confettiFrameCmd(msg.seq)

	case shakeMsg:
		if msg.seq != v.shakeSeq {
			return v, nil
		}
		if msg.step >= len(shakeOffsets) {
			v.shakeOffset = 0
			return v, nil
		}
		v.shakeOffset = shakeOffsets[msg.step]
		return v, shakeCmd(msg.seq, msg.step+1)

	case tea.KeyMsg:
		var cmd tea.Cmd
		v, cmd, _ = v.HandleKey(msg)
		return v, cmd

	case tea.MouseMsg:
		return v.handleMouse(msg)
	}

	return v, nil
}

// HandleKey feeds a key press to the controller and reports whether the
// timer used it
func (v TimerView) HandleKey(msg tea.KeyMsg) (TimerView, tea.Cmd, bool) {
	var (
		cmds    []tea.Cmd
		handled bool
	)
	for _, ev := range keyEvents(msg) {
		effects, h := v.ctrl.HandleKey(ev)
		handled = handled || h
		var cmd tea.Cmd
		v, cmd = v.apply(effects)
		cmds = append(cmds, cmd)
	}

	if !handled && key.Matches(msg, v.resetKey) {
		if v.ctrl.Reset() {
			v.progressTotal = 0
			v.statusMsg = ""
			handled = true
		}
	}
	return v, tea.Batch(cmds...), handled
}

// Shutdown records a running segment as abandoned
func (v TimerView) Shutdown() tea.Cmd {
	if !v.ctrl.IsRunning() {
		return nil
	}
	return v.endRun(model.OutcomeAbandoned, v.ctrl.Value())
}

// keyEvents converts a bubbletea key press. A paste yields one event per rune.
func keyEvents(msg tea.KeyMsg) []timer.KeyEvent {
	simple := map[tea.KeyType]timer.Key{
		tea.KeyUp:        timer.KeyUp,
		tea.KeyDown:      timer.KeyDown,
		tea.KeyLeft:      timer.KeyLeft,
		tea.KeyRight:     timer.KeyRight,
		tea.KeyTab:       timer.KeyTab,
		tea.KeyShiftTab:  timer.KeyShiftTab,
		tea.KeyEnter:     timer.KeyEnter,
		tea.KeyBackspace: timer.KeyBackspace,
		tea.KeyDelete:    timer.KeyDelete,
		tea.KeyEsc:       timer.KeyEscape,
		tea.KeySpace:     timer.KeySpace,
	}
	if k, ok := simple[msg.Type]; ok {
		return []timer.KeyEvent{{Key: k, Alt: msg.Alt}}
	}
	if msg.Type != tea.KeyRunes {
		return []timer.KeyEvent{{Key: timer.KeyOther, Ctrl: true, Alt: msg.Alt}}
	}
	evs := make([]timer.KeyEvent, 0, len(msg.Runes))
	for _, r := range msg.Runes {
		evs = append(evs, timer.KeyEvent{Key: timer.KeyRune, Rune: r, Alt: msg.Alt})
	}
	return evs
}

// apply turns controller effects into state changes, hook calls and commands
func (v TimerView) apply(effects []timer.Effect) (TimerView, tea.Cmd) {
	var cmds []tea.Cmd
	for _, e := range effects {
		if s := e.Status(); s != "" {
			v.statusMsg = s
			v.statusErr = e.Type == timer.EffectRejected
		}

		switch e.Type {
		case timer.EffectStarted:
			total := e.Value.TotalSeconds()
			v.runStarted = v.now()
			v.runPlanned = total
			if total > v.progressTotal {
				v.progressTotal = total
			}
			cmds = append(cmds, tickCmd(e.Seq, v.tick))

		case timer.EffectPaused:
			cmds = append(cmds, v.endRun(model.OutcomePaused, e.Value))

		case timer.EffectRejected:
			v.shakeSeq++
			v.shakeOffset = shakeOffsets[0]
			cmds = append(cmds, shakeCmd(v.shakeSeq, 1))

		case timer.EffectCompleted:
			cmds = append(cmds, v.endRun(model.OutcomeCompleted, e.Value))
			if v.hooks.Completed != nil {
				cmds = append(cmds, v.hooks.Completed(duration.FromTotalSeconds(v.progressTotal)))
			}
			v.burst = confetti.New(v.width, v.height, v.rng)
			v.burstSeq++
			v.burstFrame = v.now()
			cmds = append(cmds, confettiFrameCmd(v.burstSeq))
			if e.Delay > 0 {
				cmds = append(cmds, resetCmd(e.Seq, e.Delay))
			}

		case timer.EffectReset:
			v.progressTotal = 0
		}
	}
	return v, tea.Batch(cmds...)
}

func (v TimerView) endRun(outcome model.Outcome, remaining duration.Value) tea.Cmd {
	if v.hooks.RunEnded == nil || v.runStarted.IsZero() {
		return nil
	}
	return v.hooks.RunEnded(model.Run{
		PlannedSeconds:   v.runPlanned,
		RemainingSeconds: remaining.TotalSeconds(),
		Outcome:          outcome,
		StartedAt:        v.runStarted,
		EndedAt:          v.now(),
	})
}

// geometry is where the timer block sits inside the view
type geometry struct {
	left, top int
}

func (v TimerView) geometry() geometry {
	g := geometry{
		left: (v.width - blockWidth) / 2,
		top:  (v.height - blockHeight) / 2,
	}
	if g.left < 0 {
		g.left = 0
	}
	if g.top < 0 {
		g.top = 0
	}
	return g
}

// fieldAt returns the field under view coordinates x, y. The strips above
// and below a field belong to it.
func (v TimerView) fieldAt(x, y int) (duration.Field, bool) {
	g := v.geometry()
	row := y - g.top
	if row < rowStripAbove || row > rowStripBelow {
		return 0, false
	}
	col := x - g.left
	for i, f := range duration.Fields {
		start := i * (fieldWidth + sepWidth)
		if col >= start && col < start+fieldWidth {
			return f, true
		}
	}
	return 0, false
}

func (v TimerView) buttonLabel() string {
	if v.ctrl.IsRunning() {
		return labelPause
	}
	return labelStart
}

// onButton reports whether x, y hits the start/pause button
func (v TimerView) onButton(x, y int) bool {
	g := v.geometry()
	if y-g.top != rowButton {
		return false
	}
	w := lipgloss.Width(theme.Current.Styles.Button.Render(v.buttonLabel()))
	start := (v.width - w) / 2
	return x >= start && x < start+w
}

func (v TimerView) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		f, ok := v.fieldAt(msg.X, msg.Y)
		if !ok || v.ctrl.IsRunning() {
			return v, nil
		}
		if cur, focused := v.ctrl.Focused(); !focused || cur != f {
			v.ctrl.Focus(f)
		}
		deltaY := -1
		if msg.Button == tea.MouseButtonWheelDown {
			deltaY = 1
		}
		v.ctrl.Wheel(deltaY)
		return v, nil

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if f, ok := v.fieldAt(msg.X, msg.Y); ok {
			if v.ctrl.IsRunning() {
				return v, nil
			}
			v.ctrl.Focus(f)
			if v.ctrl.BeginDrag(f, float64(msg.Y)) && !v.framing {
				v.framing = true
				v.lastFrame = v.now()
				return v, dragFrameCmd()
			}
			return v, nil
		}
		if v.onButton(msg.X, msg.Y) {
			v.ctrl.Blur()
			return v.apply(v.ctrl.Toggle())
		}
		v.ctrl.Blur()
		return v, nil

	case msg.Action == tea.MouseActionMotion:
		if _, _, dragging := v.ctrl.Dragging(); dragging {
			v.ctrl.MoveDrag(float64(msg.Y))
		}
		return v, nil

	case msg.Action == tea.MouseActionRelease:
		if _, _, dragging := v.ctrl.Dragging(); dragging {
			v.ctrl.EndDrag()
		}
		return v, nil
	}
	return v, nil
}

// View renders the timer view
func (v TimerView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	rows := v.renderBlock()
	g := v.geometry()

	lines := make([]string, v.height)
	for y := 0; y < v.height; y++ {
		i := y - g.top
		if i < 0 || i >= len(rows) || rows[i] == "" {
			lines[y] = v.confettiRow(y, 0, v.width)
			continue
		}
		row := rows[i]
		w := lipgloss.Width(row)
		x := (v.width - w) / 2
		if i >= rowStripAbove && i <= rowStripBelow {
			x = g.left
		}
		x += v.shakeOffset
		if x < 0 {
			x = 0
		}
		end := x + w
		if end > v.width {
			end = v.width
		}
		lines[y] = v.confettiRow(y, 0, x) + row + v.confettiRow(y, end, v.width)
	}
	return strings.Join(lines, "\n")
}

func (v TimerView) confettiRow(y, from, to int) string {
	if v.burst == nil {
		if to <= from {
			return ""
		}
		return strings.Repeat(" ", to-from)
	}
	return v.burst.Row(y, from, to)
}

// renderBlock returns blockHeight rows; empty strings are blank rows
func (v TimerView) renderBlock() []string {
	styles := theme.Current.Styles
	t := theme.Current.Theme
	rows := make([]string, blockHeight)

	rows[rowTitle] = styles.Title.Render(timerViewTitle)

	above, fields, below := v.renderFields()
	rows[rowStripAbove] = above
	for i, line := range strings.Split(fields, "\n") {
		if i < 3 {
			rows[rowFields+i] = line
		}
	}
	rows[rowStripBelow] = below

	bar := progress.New(
		progress.WithGradient(t.ProgressStart, t.ProgressEnd),
		progress.WithWidth(blockWidth),
		progress.WithoutPercentage(),
	)
	rows[rowProgress] = bar.ViewAs(v.progressPercent())

	button := styles.Button
	if v.ctrl.IsRunning() {
		button = styles.ButtonActive
	}
	rows[rowButton] = button.Render(v.buttonLabel())

	if v.statusMsg != "" {
		status := styles.Status
		if v.statusErr {
			status = styles.StatusError
		}
		rows[rowStatus] = status.Render(v.statusMsg)
	}
	return rows
}

func (v TimerView) progressPercent() float64 {
	if v.progressTotal <= 0 {
		return 0
	}
	p := float64(v.ctrl.TotalSeconds()) / float64(v.progressTotal)
	if p > 1 {
		p = 1
	}
	return p
}

// renderFields renders the strip above, the three field boxes and the strip below
func (v TimerView) renderFields() (string, string, string) {
	styles := theme.Current.Styles
	value := v.ctrl.Value()
	dragField, offset, dragging := v.ctrl.Dragging()

	var above, below []string
	boxes := make([]string, 0, 5)
	for i, f := range duration.Fields {
		if i > 0 {
			boxes = append(boxes, "   \n"+styles.Separator.Render(" : ")+"\n   ")
			above = append(above, strings.Repeat(" ", sepWidth))
			below = append(below, strings.Repeat(" ", sepWidth))
		}

		n := value.Get(f)
		up := styles.Strip
		down := styles.Strip
		if (dragging || offset != 0) && dragField == f {
			if offset < 0 {
				up = styles.HelpKey
			} else {
				down = styles.HelpKey
			}
		}
		above = append(above, up.Render(centered(duration.Pad((n+1)%(f.Max()+1)), fieldWidth)))
		below = append(below, down.Render(centered(duration.Pad((n+f.Max())%(f.Max()+1)), fieldWidth)))

		text := v.ctrl.FieldText(f)
		if v.ctrl.Selected(f) {
			text = styles.FieldSelected.Render(text)
		}
		box := styles.Field
		focused, isFocused := v.ctrl.Focused()
		switch {
		case v.ctrl.IsRunning():
			box = styles.FieldRunning
		case isFocused && focused == f:
			box = styles.FieldFocused
		}
		boxes = append(boxes, box.Render(padDigits(text)))
	}

	return strings.Join(above, ""),
		lipgloss.JoinHorizontal(lipgloss.Top, boxes...),
		strings.Join(below, "")
}

// padDigits right-aligns an edit buffer shorter than two characters
func padDigits(s string) string {
	if w := lipgloss.Width(s); w < 2 {
		return strings.Repeat(" ", 2-w) + s
	}
	return s
}

func centered(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
