// Copyright
// SPDX-License-Identifier: MIT
// mdpad: terminal markdown viewer and editor with safe saves and autosave on background
package main

import (
    "errors"
    "flag"
    "fmt"
    "os"
    "os/signal"
    "path/filepath"
    "strings"

    "golang.org/x/term"

    "mdpad/internal/config"
    "mdpad/internal/fsx"
    "mdpad/internal/lifecycle"
    "mdpad/internal/logx"
    "mdpad/internal/markdown"
    "mdpad/internal/session"
    "mdpad/internal/state"
    "mdpad/internal/tui"
)

const Version = "0.3.0"

const defaultWrap = 80

/* ---------- CLI ---------- */

func main() {
    if len(os.Args) < 2 {
        cmdOpen(nil)
        return
    }
    switch os.Args[1] {
    case "help", "-h", "--help":
        if len(os.Args) > 2 {
            helpTopic(os.Args[2])
        } else {
            usage()
        }
    case "version", "--version":
        fmt.Println("mdpad", Version)
    case "init":
        cmdInit(os.Args[2:])
    case "open":
        cmdOpen(os.Args[2:])
    case "new":
        cmdNew(os.Args[2:])
    case "view":
        cmdView(os.Args[2:])
    default:
        // "mdpad notes.md" and "mdpad --style dark" both mean open.
        cmdOpen(os.Args[1:])
    }
}

func usage() {
    fmt.Print(`mdpad ` + Version + `
Read and edit markdown files in the terminal. Edits are saved when you leave edit mode,
press ctrl+s, switch away from the terminal, or quit.
USAGE
  mdpad [command] [options] [PATH]
COMMANDS
  open [PATH]  Open PATH in the viewer, or browse for a file (default command)
  new          Create a timestamped note in the notes folder and start editing
  view PATH    Render PATH to stdout and exit
  init         Write the default config file (never overwrites)
  help         Show help (try: mdpad help keys)
  version      Print version
NOTES
  • New notes go to the cloud folder when it exists, otherwise to Documents.
  • Use -v or -vv with --log-file to record loads and saves while the editor runs.
` + "\n")
}

func helpTopic(name string) {
    switch name {
    case "open", "new":
        fmt.Println(`USAGE
  mdpad open [PATH] [--config PATH] [--style NAME] [--wrap N] [--dir DIR]
             [--line-numbers] [--no-color] [-v | -vv] [--log-file PATH]
  mdpad new  [same options]
OPTIONS
  --config PATH     Config file (default: ` + config.DefaultPath() + `)
  --style NAME      auto | dark | light | notty | dracula | pink | ascii | path to a JSON style
  --wrap N          Wrap rendered markdown at N columns (0 = terminal width)
  --dir DIR         Directory the file browser starts in
  --line-numbers    Show line numbers in the editor
  --no-color        Disable colors (also honored: NO_COLOR)
  -v                INFO logs (needs --log-file)
  -vv               DEBUG logs (needs --log-file)
  --log-file PATH   Append logs to file (created if missing)
`)
    case "view":
        fmt.Print(`USAGE
  mdpad view PATH [--style NAME] [--wrap N] [--raw]
DESCRIPTION
  Prints PATH rendered as markdown. With --raw, or when rendering fails, the text is printed as is.
  Exits 1 when the file cannot be read.
` + "\n")
    case "keys":
        fmt.Print(`KEYS
  ctrl+o   open a file            ctrl+n   new note
  ctrl+e   toggle edit / view     ctrl+s   save now
  ctrl+d   show unsaved changes   ctrl+y   copy document
  f1       markdown cheat sheet (edit mode)
  ctrl+z   suspend                q        quit (view mode)
  ctrl+c   quit (saves first when editing)
` + "\n")
    default:
        usage()
    }
}

/* ---------- options ---------- */

type options struct {
    configPath  string
    style       string
    wrap        int
    dir         string
    logFile     string
    lineNumbers bool
    noColor     bool
    verbose     bool
    veryVerbose bool
}

func bindCommon(fs *flag.FlagSet, o *options) {
    fs.StringVar(&o.configPath, "config", config.DefaultPath(), "config file")
    fs.StringVar(&o.style, "style", "", "markdown style")
    fs.IntVar(&o.wrap, "wrap", -1, "wrap width (0 = terminal width)")
    fs.StringVar(&o.dir, "dir", "", "start directory for the file browser")
    fs.StringVar(&o.logFile, "log-file", "", "append logs to file")
    fs.BoolVar(&o.lineNumbers, "line-numbers", false, "show line numbers in the editor")
    fs.BoolVar(&o.noColor, "no-color", false, "disable colors")
    fs.BoolVar(&o.verbose, "v", false, "verbose (INFO)")
    fs.BoolVar(&o.veryVerbose, "vv", false, "very verbose (DEBUG)")
}

func (o *options) verbosity() int {
    switch {
    case o.veryVerbose:
        return logx.Debug
    case o.verbose:
        return logx.Info
    }
    return logx.Quiet
}

// parseArgs accepts flags before or after the single PATH argument.
func parseArgs(fs *flag.FlagSet, args []string) (string, error) {
    var path string
    for {
        if err := fs.Parse(args); err != nil {
            return "", err
        }
        rest := fs.Args()
        if len(rest) == 0 {
            return path, nil
        }
        if path != "" {
            return "", fmt.Errorf("unexpected argument %q", rest[0])
        }
        path = rest[0]
        args = rest[1:]
    }
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(o *options) (*config.Config, error) {
    c, err := config.Load(o.configPath)
    if err != nil {
        return nil, err
    }
    if o.style != "" {
        c.Style = o.style
    }
    if o.wrap >= 0 {
        c.WrapWidth = o.wrap
    }
    if o.logFile != "" {
        c.LogFile = o.logFile
    }
    if o.lineNumbers {
        c.LineNumbers = true
    }
    c.NoColor = c.NoColor || o.noColor
    return c, nil
}

func fatalf(format string, args ...any) {
    fmt.Fprintf(os.Stderr, "mdpad: "+format+"\n", args...)
    os.Exit(1)
}

/* ---------- commands ---------- */

func cmdOpen(args []string) {
    fs := flag.NewFlagSet("open", flag.ExitOnError)
    var o options
    bindCommon(fs, &o)
    path, err := parseArgs(fs, args)
    if err != nil {
        fatalf("%v", err)
    }
    runTUI(&o, path, false)
}

func cmdNew(args []string) {
    fs := flag.NewFlagSet("new", flag.ExitOnError)
    var o options
    bindCommon(fs, &o)
    if path, err := parseArgs(fs, args); err != nil {
        fatalf("%v", err)
    } else if path != "" {
        fatalf("new takes no PATH; notes are named by the current time")
    }
    runTUI(&o, "", true)
}

func runTUI(o *options, path string, create bool) {
    c, err := loadConfig(o)
    if err != nil {
        fatalf("%v", err)
    }
    log, err := logx.Open(c.LogFile, Version, o.verbosity())
    if err != nil {
        fatalf("open log file: %v", err)
    }
    defer log.Close()

    if path != "" {
        if _, err := os.Stat(path); err != nil {
            fatalf("%v", err)
        }
    }

    ctrl := session.New(session.Deps{
        FS:      c.FS(),
        Dirs:    c.Dirs(),
        Observe: observer(log),
    })

    startDir := o.dir
    if startDir == "" {
        if wd, err := os.Getwd(); err == nil {
            startDir = wd
        }
    }

    style := c.Style
    noColor := tuiNoColor(c.NoColor)
    if noColor && (style == "" || style == "auto") {
        style = "notty"
    }

    sigs := make(chan os.Signal, 1)
    signal.Notify(sigs, backgroundSignals()...)
    defer signal.Stop(sigs)

    log.Infof("mdpad", "config=%s style=%s wrap=%d", o.configPath, style, c.WrapWidth)
    err = tui.Run(tui.Config{
        Session:      ctrl,
        Hub:          lifecycle.NewHub(),
        Renderer:     markdown.NewGlamour(style, c.WrapWidth),
        Log:          log,
        StartDir:     startDir,
        Extensions:   c.Extensions,
        LineNumbers:  c.LineNumbers,
        NoColor:      noColor,
        WrapWidth:    c.WrapWidth,
        Open:         path,
        New:          create,
        Signals:      sigs,
        SignalAction: afterSignal,
    })
    if err != nil {
        log.Errorf("mdpad", "tui: %v", err)
        fatalf("%v", err)
    }
}

func tuiNoColor(configured bool) bool {
    return configured || os.Getenv("NO_COLOR") != ""
}

// observer logs controller file operations. Failures are never shown as
// dialogs, so the log file is the only place they surface.
func observer(log *logx.Logger) session.Observer {
    return func(op session.Op, ref *fsx.Ref, err error) {
        name := "(none)"
        if ref != nil {
            name = ref.Path
        }
        switch {
        case err == nil:
            log.Infof(string(op), "%s", name)
        case errors.Is(err, session.ErrNoFile):
            log.Debugf(string(op), "skipped: %v", err)
        default:
            log.Errorf(string(op), "%s: %v", name, err)
        }
    }
}

func cmdView(args []string) {
    fs := flag.NewFlagSet("view", flag.ExitOnError)
    var o options
    bindCommon(fs, &o)
    raw := fs.Bool("raw", false, "print the text without rendering")
    path, err := parseArgs(fs, args)
    if err != nil {
        fatalf("%v", err)
    }
    if path == "" {
        helpTopic("view")
        os.Exit(2)
    }
    c, err := loadConfig(&o)
    if err != nil {
        fatalf("%v", err)
    }

    var loadErr error
    ctrl := session.New(session.Deps{
        FS: c.FS(),
        Observe: func(op session.Op, _ *fsx.Ref, err error) {
            if op == session.OpLoad {
                loadErr = err
            }
        },
    })
    ctrl.SelectFile(fsx.NewRef(path))
    if loadErr != nil {
        fatalf("%s: %v", filepath.Base(path), loadErr)
    }

    var r markdown.Renderer = markdown.Plain{}
    if !*raw {
        r = markdown.NewGlamour(viewStyle(c), viewWidth(c.WrapWidth))
    }
    out := markdown.Project(state.Viewing, ctrl.Text(), r).Text
    fmt.Print(out)
    if !strings.HasSuffix(out, "\n") {
        fmt.Println()
    }
}

func viewStyle(c *config.Config) string {
    if c.Style != "" && c.Style != "auto" {
        return c.Style
    }
    if tuiNoColor(c.NoColor) || !term.IsTerminal(int(os.Stdout.Fd())) {
        return "notty"
    }
    return "auto"
}

func viewWidth(configured int) int {
    if configured > 0 {
        return configured
    }
    if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
        return w
    }
    return defaultWrap
}

func cmdInit(args []string) {
    fs := flag.NewFlagSet("init", flag.ExitOnError)
    path := fs.String("config", config.DefaultPath(), "config file to write")
    _ = fs.Parse(args)

    // Write default config if not exists
    if _, err := os.Stat(*path); errors.Is(err, os.ErrNotExist) {
        if err := config.Save(*path, config.Default()); err != nil {
            fatalf("%v", err)
        }
        fmt.Println("Wrote", *path)
    } else {
        fmt.Println(*path, "already exists; not overwriting")
    }
}
