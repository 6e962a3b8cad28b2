// Package main is an interactive demo for the keytrap library.
//
// It opens a terminal screen, feeds every key press through keytrap,
// and shows the actions that fire. F2 starts a recording session; the
// keys typed while recording are captured instead of dispatched and
// the finished sequence is shown once typing pauses.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keytrap"
	"github.com/dshills/keytrap/internal/keymap"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	KeymapDir string
	UseLua    bool
	TimeoutMS int
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	kt := keytrap.New(keytrap.Config{
		SequenceTimeout: time.Duration(opts.TimeoutMS) * time.Millisecond,
		ActionBuffer:    100,
	})
	defer kt.Close()

	if opts.UseLua {
		eval := keymap.NewLuaConditionEvaluator()
		defer eval.Close()
		kt.Registry().SetConditionEvaluator(eval)
	}

	if err := bindDefaults(kt); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to register bindings: %v\n", err)
		return 1
	}

	if opts.KeymapDir != "" {
		loader := keymap.NewLoader()
		watcher, err := keymap.NewWatcher(kt.Registry(), loader)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create keymap watcher: %v\n", err)
			return 1
		}
		defer watcher.Close()
		if err := watcher.Watch(opts.KeymapDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to watch %s: %v\n", opts.KeymapDir, err)
			return 1
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		screen.PostEvent(tcell.NewEventInterrupt("quit"))
	}()

	ui := &demoUI{screen: screen, kt: kt}

	// Drain dispatched actions into the UI.
	go func() {
		for action := range kt.Actions() {
			ui.addAction(action)
			screen.PostEvent(tcell.NewEventInterrupt(nil))
		}
	}()

	ui.loop()
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.KeymapDir, "keymaps", "", "Directory of keymap files to load and watch")
	flag.StringVar(&opts.KeymapDir, "k", "", "Directory of keymap files to load and watch (shorthand)")
	flag.BoolVar(&opts.UseLua, "lua", false, "Evaluate binding conditions as Lua expressions")
	flag.IntVar(&opts.TimeoutMS, "timeout", 1000, "Sequence timeout in milliseconds")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Keytrap - key binding and sequence recording demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keytrap [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keytrap                     Run with built-in bindings\n")
		fmt.Fprintf(os.Stderr, "  keytrap -k ./keymaps        Load and watch keymap files\n")
		fmt.Fprintf(os.Stderr, "  keytrap -lua                Enable Lua binding conditions\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Keytrap %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.TimeoutMS <= 0 {
		opts.TimeoutMS = 1000
	}

	return opts
}

func bindDefaults(kt *keytrap.Keytrap) error {
	bindings := map[string]string{
		"ctrl+s":        "file.save",
		"ctrl+shift+p":  "palette.open",
		"g g":           "cursor.top",
		"d d":           "line.delete",
		"ctrl+x ctrl+c": "app.quit",
	}
	for keys, action := range bindings {
		if err := kt.Bind(keys, action); err != nil {
			return err
		}
	}
	return nil
}

// demoUI owns the screen and the displayed state. Recording callbacks
// fire from timer goroutines, so the state is mutex-guarded and
// redraws are requested by posting interrupt events to the screen.
type demoUI struct {
	screen tcell.Screen
	kt     *keytrap.Keytrap

	mu       sync.Mutex
	actions  []string
	live     string
	recorded []string
}

func (ui *demoUI) addAction(action keytrap.Action) {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	ui.actions = append(ui.actions, action.Name)
	if len(ui.actions) > 10 {
		ui.actions = ui.actions[len(ui.actions)-10:]
	}
}

func (ui *demoUI) loop() {
	for {
		ui.draw()
		switch ev := ui.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				return
			}
			if ev.Key() == tcell.KeyF2 && !ui.kt.Recording() {
				ui.startRecording()
				continue
			}
			if ev.Key() == tcell.KeyF3 {
				ui.kt.StopRecord()
				continue
			}
			ui.feed(ev)
		case *tcell.EventInterrupt:
			if ev.Data() == "quit" {
				return
			}
		case *tcell.EventResize:
			ui.screen.Sync()
		}
	}
}

func (ui *demoUI) startRecording() {
	ui.mu.Lock()
	ui.live = ""
	ui.recorded = nil
	ui.mu.Unlock()

	ui.kt.Record(
		func(seq []string) {
			ui.mu.Lock()
			ui.recorded = seq
			ui.live = ""
			ui.mu.Unlock()
			ui.screen.PostEvent(tcell.NewEventInterrupt(nil))
		},
		keytrap.WithLiveUpdate(func(combo string) {
			ui.mu.Lock()
			ui.live = combo
			ui.mu.Unlock()
			ui.screen.PostEvent(tcell.NewEventInterrupt(nil))
		}),
	)
}

// feed translates a tcell key event into a press and a release.
// Terminals do not report key-up, so the release is synthesized
// immediately after the press.
func (ui *demoUI) feed(ev *tcell.EventKey) {
	id, mods, ok := translateKey(ev)
	if !ok {
		return
	}
	ui.kt.HandleKey(keytrap.NewPress(id, mods...))
	ui.kt.HandleKey(keytrap.NewRelease(id, mods...))
}

var tcellNamedKeys = map[tcell.Key]string{
	tcell.KeyEscape:     "escape",
	tcell.KeyEnter:      "enter",
	tcell.KeyTab:        "tab",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyDelete:     "delete",
	tcell.KeyInsert:     "insert",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyPgUp:       "pageup",
	tcell.KeyPgDn:       "pagedown",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyF1:         "f1",
	tcell.KeyF2:         "f2",
	tcell.KeyF3:         "f3",
	tcell.KeyF4:         "f4",
	tcell.KeyF5:         "f5",
	tcell.KeyF6:         "f6",
	tcell.KeyF7:         "f7",
	tcell.KeyF8:         "f8",
	tcell.KeyF9:         "f9",
	tcell.KeyF10:        "f10",
	tcell.KeyF11:        "f11",
	tcell.KeyF12:        "f12",
}

// translateKey maps a tcell key event onto a key identifier and its
// modifiers.
func translateKey(ev *tcell.EventKey) (string, []string, bool) {
	var mods []string
	m := ev.Modifiers()
	if m&tcell.ModCtrl != 0 {
		mods = append(mods, "ctrl")
	}
	if m&tcell.ModAlt != 0 {
		mods = append(mods, "alt")
	}
	if m&tcell.ModShift != 0 {
		mods = append(mods, "shift")
	}
	if m&tcell.ModMeta != 0 {
		mods = append(mods, "meta")
	}

	k := ev.Key()

	if name, ok := tcellNamedKeys[k]; ok {
		return name, mods, true
	}

	if k == tcell.KeyRune {
		r := ev.Rune()
		if r == ' ' {
			return "space", mods, true
		}
		return string(r), mods, true
	}

	// Control characters arrive as dedicated key codes without the
	// ctrl modifier set.
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		if !hasMod(mods, "ctrl") {
			mods = append(mods, "ctrl")
		}
		return string(rune('a' + k - tcell.KeyCtrlA)), mods, true
	}

	return "", nil, false
}

func hasMod(mods []string, mod string) bool {
	for _, m := range mods {
		if m == mod {
			return true
		}
	}
	return false
}

func (ui *demoUI) draw() {
	ui.mu.Lock()
	actions := append([]string(nil), ui.actions...)
	live := ui.live
	recorded := append([]string(nil), ui.recorded...)
	ui.mu.Unlock()

	s := ui.screen
	s.Clear()

	style := tcell.StyleDefault
	bold := style.Bold(true)

	drawText(s, 0, 0, bold, "keytrap demo")
	drawText(s, 0, 1, style, "F2 record  F3 stop  ctrl+c quit")

	if ui.kt.Recording() {
		drawText(s, 0, 3, bold.Foreground(tcell.ColorRed), "RECORDING")
		drawText(s, 0, 4, style, "combo: "+live)
	} else if len(recorded) > 0 {
		drawText(s, 0, 3, bold, "recorded: "+strings.Join(recorded, " "))
	}

	drawText(s, 0, 6, bold, "actions:")
	for i, name := range actions {
		drawText(s, 2, 7+i, style, name)
	}

	s.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}
