package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/odvcencio/rove/pkg/backend"
	"github.com/odvcencio/rove/pkg/config"
	"github.com/odvcencio/rove/pkg/focus"
	"github.com/odvcencio/rove/pkg/keynav"
	"github.com/odvcencio/rove/pkg/telemetry"
	"github.com/odvcencio/rove/pkg/terminal"
	"github.com/odvcencio/rove/pkg/tree"
	"github.com/odvcencio/rove/pkg/widgets"
)

// WakeEvent tags understood by the event loop.
const (
	wakeConfig   = "config"
	wakeShutdown = "shutdown"
)

type app struct {
	backend backend.Backend
	cfg     *config.Config
	cfgPath string
	noColor bool
	logger  *slog.Logger

	hub      *telemetry.Hub
	metrics  *telemetry.Registry
	dispatch *telemetry.Histogram

	host *focus.Host
	root *tree.Node
	hit  *widgets.HitGrid

	header     *widgets.Label
	listTitle  *widgets.Label
	comboTitle *widgets.Label
	notesTitle *widgets.Label
	status     *widgets.Label

	list  *widgets.ListBox
	combo *widgets.ComboBox
	notes *widgets.TextArea

	width  int
	height int

	stopWatch    func()
	cancelFocus  func()
	cancelEvents func()
	quit         bool
}

func newApp(b backend.Backend, cfg *config.Config, cfgPath string, noColor bool, logger *slog.Logger) *app {
	a := &app{
		backend: b,
		cfg:     cfg,
		cfgPath: cfgPath,
		noColor: noColor,
		logger:  logger,
		hub:     telemetry.NewHub(),
		metrics: telemetry.NewRegistry(),
		host:    focus.NewHost(),
		root:    tree.New(),
		hit:     widgets.NewHitGrid(80, 24),
	}
	a.dispatch = a.metrics.RegisterHistogram(telemetry.MetricDispatchSeconds, nil, nil)

	a.header = widgets.NewLabel("rove gallery")
	a.listTitle = widgets.NewLabel("Elements (roving tabindex)")
	a.comboTitle = widgets.NewLabel("Color (active descendant)")
	a.notesTitle = widgets.NewLabel("Notes")
	a.status = widgets.NewLabel("")

	a.list = widgets.NewListBox()
	for _, label := range []string{"hydrogen", "helium", "lithium", "beryllium", "boron", "carbon"} {
		a.list.Add(label)
	}
	a.list.OnSelect(func(idx int, opt *widgets.Option) {
		a.logger.Info("element selected", "index", idx, "label", opt.Label())
		a.updateStatus()
	})

	a.combo = widgets.NewComboBox()
	a.combo.Input().SetPlaceholder("pick a color")
	for _, label := range []string{"amber", "azure", "coral", "crimson", "olive", "teal"} {
		a.combo.Add(label)
	}
	a.combo.OnSelect(func(value string) {
		a.logger.Info("color selected", "value", value)
		a.updateStatus()
	})

	a.notes = widgets.NewTextArea()
	a.notes.SetText("Tab moves between panes.\nArrows move inside a pane.\nType here; navigation keys defer to the cursor.")

	a.root.Append(a.list.Node())
	a.root.Append(a.combo.Node())
	a.root.Append(a.notes.Node())

	a.applyTheme(resolveTheme(cfg.Theme.Name, noColor))

	a.cancelFocus = a.host.OnFocusChange(nil, func(cur, prev *tree.Node) {
		a.hub.Publish(telemetry.Event{
			Type:    telemetry.EventFocusChanged,
			Element: nodeID(cur),
		})
		a.updateStatus()
	})

	// Drain hub events into the structured log so reloads and focus
	// moves are traceable after the screen is gone.
	events, cancel := a.hub.Subscribe()
	a.cancelEvents = cancel
	go func() {
		for ev := range events {
			a.logger.Info("event",
				"type", string(ev.Type),
				"controller", ev.Controller,
				"element", ev.Element)
		}
	}()

	if cfg.Reload.Enabled {
		watchPath := cfgPath
		if watchPath == "" {
			watchPath = config.ProjectConfigPath()
		}
		debounce := time.Duration(cfg.Reload.DebounceMS) * time.Millisecond
		stop, err := watchConfig(watchPath, debounce, logger, func() {
			_ = b.PostEvent(terminal.WakeEvent{Tag: wakeConfig})
		})
		if err != nil {
			logger.Warn("config watch disabled", "path", watchPath, "error", err)
		} else {
			a.stopWatch = stop
		}
	}

	return a
}

// attach wires both controllers with the current configuration. The
// list pane roves real focus; the combo pane parks focus on its input
// and designates options by ID.
func (a *app) attach() error {
	opts := keynav.Options{
		Wrap:    a.cfg.Navigation.Wrap,
		Keys:    a.cfg.Navigation.Bindings(),
		Entry:   a.cfg.Navigation.EntryPolicy(),
		Logger:  a.logger,
		Metrics: a.metrics,
		OnCurrentChange: func(cur, prev *tree.Node) {
			a.publishCurrent("list", cur)
		},
	}
	if err := a.list.Attach(a.host, opts); err != nil {
		return fmt.Errorf("attaching list controller: %w", err)
	}

	comboOpts := opts
	comboOpts.OnCurrentChange = func(cur, prev *tree.Node) {
		a.publishCurrent("combo", cur)
	}
	if err := a.combo.Attach(a.host, comboOpts); err != nil {
		return fmt.Errorf("attaching combo controller: %w", err)
	}
	return nil
}

func (a *app) publishCurrent(pane string, cur *tree.Node) {
	a.hub.Publish(telemetry.Event{
		Type:       telemetry.EventCurrentChanged,
		Controller: pane,
		Element:    nodeID(cur),
	})
	a.updateStatus()
}

func (a *app) run() error {
	if err := a.backend.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer a.backend.Fini()

	if err := a.attach(); err != nil {
		return err
	}

	a.width, a.height = a.backend.Size()
	a.host.SetFocus(focus.NextTabStop(a.root, nil, false))
	a.render()

	for !a.quit {
		ev := a.backend.PollEvent()
		if ev == nil {
			return nil
		}
		a.handleEvent(ev)
		a.render()
	}
	return nil
}

func (a *app) handleEvent(ev terminal.Event) {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		start := time.Now()
		a.handleKey(e)
		a.dispatch.ObserveDuration(time.Since(start))
	case terminal.MouseEvent:
		if e.Action == terminal.MousePress && e.Button == terminal.MouseLeft {
			a.host.PointerDown(a.hit.NodeAt(e.X, e.Y))
		}
	case terminal.ResizeEvent:
		a.width, a.height = e.Width, e.Height
		a.backend.Sync()
	case terminal.WakeEvent:
		switch e.Tag {
		case wakeConfig:
			a.reloadConfig()
		case wakeShutdown:
			a.quit = true
		}
	}
}

func (a *app) handleKey(ev terminal.KeyEvent) {
	if ev.Ctrl && ev.Rune == 'c' {
		a.quit = true
		return
	}
	if a.host.DispatchKey(ev) {
		return
	}
	switch {
	case ev.Key == terminal.KeyTab && ev.Shift:
		a.focusPane(-1)
	case ev.Key == terminal.KeyTab:
		a.focusPane(1)
	case ev.Key == terminal.KeyEscape:
		a.quit = true
	}
}

// focusPane moves real focus to the neighboring pane. Each pane exposes
// exactly one tab stop: the list's roving current option, the combo
// input, and the notes editor. Stepping through the stops is stepping
// through the panes, and re-entering the list lands on whichever option
// last held the stop.
func (a *app) focusPane(delta int) {
	if next := focus.NextTabStop(a.root, a.host.Current(), delta < 0); next != nil {
		a.host.SetFocus(next)
	}
}

func (a *app) reloadConfig() {
	var cfg *config.Config
	var err error
	if a.cfgPath != "" {
		cfg, err = config.LoadFromPath(a.cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		a.logger.Warn("config reload failed", "error", err)
		return
	}

	a.cfg = cfg
	a.list.Close()
	a.combo.Close()
	if err := a.attach(); err != nil {
		a.logger.Error("controller re-attach failed", "error", err)
		a.quit = true
		return
	}
	a.applyTheme(resolveTheme(cfg.Theme.Name, a.noColor))
	a.hub.Publish(telemetry.Event{Type: telemetry.EventConfigReloaded})
	a.logger.Info("config reloaded",
		"wrap", cfg.Navigation.Wrap,
		"key_sets", cfg.Navigation.KeySets,
		"entry", cfg.Navigation.Entry)
	a.updateStatus()
}

func (a *app) updateStatus() {
	element := "none"
	if idx := a.list.FocusedIndex(); idx >= 0 {
		element = a.list.Options()[idx].Label()
	}
	color := a.combo.Value()
	if color == "" {
		color = "unset"
	}
	a.status.SetText(fmt.Sprintf(" element: %s   color: %s   wrap: %v", element, color, a.cfg.Navigation.Wrap))
}

// layout assigns bounds for the current terminal size and rebuilds the
// pointer hit grid to match.
func (a *app) layout() {
	w, h := a.width, a.height
	colW := max((w-3)/2, 0)
	leftX := 1
	rightX := leftX + colW + 1
	comboH := min(1+len(a.combo.Options()), max(h-6, 1))

	a.header.Layout(widgets.Rect{X: 1, Y: 0, Width: max(w-2, 0), Height: 1})
	a.listTitle.Layout(widgets.Rect{X: leftX, Y: 2, Width: colW, Height: 1})
	a.list.Layout(widgets.Rect{X: leftX, Y: 3, Width: colW, Height: max(h-5, 0)})

	a.comboTitle.Layout(widgets.Rect{X: rightX, Y: 2, Width: colW, Height: 1})
	a.combo.Layout(widgets.Rect{X: rightX, Y: 3, Width: colW, Height: comboH})

	notesY := 3 + comboH + 1
	a.notesTitle.Layout(widgets.Rect{X: rightX, Y: notesY, Width: colW, Height: 1})
	a.notes.Layout(widgets.Rect{X: rightX, Y: notesY + 1, Width: colW, Height: max(h-notesY-3, 0)})

	a.status.Layout(widgets.Rect{X: 1, Y: h - 1, Width: max(w-2, 0), Height: 1})

	a.hit.Resize(w, h)
	a.hit.Clear()
	a.hit.AddWidget(a.list)
	for _, opt := range a.list.Options() {
		a.hit.AddWidget(opt)
	}
	a.hit.AddWidget(a.combo)
	a.hit.AddWidget(a.combo.Input())
	for _, opt := range a.combo.Options() {
		a.hit.AddWidget(opt)
	}
	a.hit.AddWidget(a.notes)
}

func (a *app) render() {
	a.layout()
	a.backend.Clear()

	a.header.Render(a.backend)
	a.listTitle.Render(a.backend)
	a.list.Render(a.backend)
	a.comboTitle.Render(a.backend)
	a.combo.Render(a.backend)
	a.notesTitle.Render(a.backend)
	a.notes.Render(a.backend)
	a.status.Render(a.backend)

	a.backend.HideCursor()
	a.backend.Show()
}

func (a *app) close() {
	if a.stopWatch != nil {
		a.stopWatch()
	}
	if a.cancelFocus != nil {
		a.cancelFocus()
	}
	a.list.Close()
	a.combo.Close()
	if a.cancelEvents != nil {
		a.cancelEvents()
	}
	a.hub.Close()
}

func nodeID(n *tree.Node) string {
	if n == nil {
		return ""
	}
	return n.ID()
}
