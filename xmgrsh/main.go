// =============================================================================
// main.go - xmgrsh Entry Point
// =============================================================================
//
// xmgrsh is an interactive shell for the XMGR plotting program. It launches
// xmgr behind a pipe and turns short commands such as
//
//	plot symbol=plus 1,4,2,6,5
//
// into xmgr's command language.
//
// Usage:
//
//	xmgrsh                       Launch xmgr on a named pipe and start the REPL
//	xmgrsh --stream              Launch xmgr on its stdin (-pipe)
//	xmgrsh --dry-run < cmds      Print the protocol instead of launching xmgr
//	xmgrsh --config <path>       Use a specific config file
//	xmgrsh --help                Show help
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/timj/xmgr-go/xmgrprotocol"
)

// =============================================================================
// Version Information
// =============================================================================

const (
	// version is the current version of xmgrsh.
	version = "0.3.0"

	// appName is the application name.
	appName = "xmgrsh"
)

// fullTitle returns the application name with version.
func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

// welcomeBanner returns the banner displayed when the REPL starts.
func welcomeBanner(mode xmgrprotocol.WireMode) string {
	return fmt.Sprintf(`%s - shell for the XMGR plotting program
Wire mode: %s

Type '.help' for available commands.
Type '.quit' to exit.
`, fullTitle(), mode)
}

// =============================================================================
// Command-Line Arguments
// =============================================================================

// arguments holds the parsed command-line arguments.
//
// GO CONCEPT: Zero Values
// -----------------------
// Every field starts at its zero value, so "" means "not given on the
// command line" and the config file value is kept.
type arguments struct {
	// configPath is the config file; empty means ~/.xmgrsh.yaml.
	configPath string

	// program overrides the xmgr executable.
	program string

	// wire overrides the wire mode ("named" or "stream").
	wire string

	// logPath overrides the trace log file.
	logPath string

	// dryRun prints the protocol to stdout instead of launching xmgr.
	dryRun bool

	// initConfig writes a default config file and exits.
	initConfig bool

	showHelp    bool
	showVersion bool
}

// parseArguments parses command-line arguments (without the program name).
func parseArguments(argv []string) (arguments, error) {
	var args arguments

	remaining := argv
	next := func(flag string) (string, error) {
		if len(remaining) == 0 {
			return "", fmt.Errorf("%s requires an argument", flag)
		}
		v := remaining[0]
		remaining = remaining[1:]
		return v, nil
	}

	for len(remaining) > 0 {
		arg := remaining[0]
		remaining = remaining[1:]

		var err error
		switch arg {
		case "--config":
			args.configPath, err = next(arg)
		case "--program":
			args.program, err = next(arg)
		case "--log":
			args.logPath, err = next(arg)
		case "--stream":
			args.wire = xmgrprotocol.Streaming.String()
		case "--named":
			args.wire = xmgrprotocol.Addressable.String()
		case "--dry-run", "-n":
			args.dryRun = true
		case "--init-config":
			args.initConfig = true
		case "--help", "-h":
			args.showHelp = true
		case "--version", "-v":
			args.showVersion = true
		default:
			err = fmt.Errorf("unknown argument: %s", arg)
		}
		if err != nil {
			return args, err
		}
	}

	return args, nil
}

// printUsage prints command-line help to stdout.
func printUsage() {
	fmt.Print(`USAGE: xmgrsh [options]

OPTIONS:
  --config <path>     Config file (default ~/.xmgrsh.yaml)
  --init-config       Write a default config file and exit
  --program <path>    xmgr executable (default xmgr)
  --named             Talk to xmgr over a named pipe (xmgr -npipe)
  --stream            Talk to xmgr over its stdin (xmgr -pipe)
  --log <path>        Append a trace of every line sent to <path>
  --dry-run, -n       Print the protocol to stdout instead of launching xmgr
  --help, -h          Show this help
  --version, -v       Show version

EXAMPLES:
  xmgrsh
  xmgrsh --stream --program /opt/xmgr/bin/xmgr
  echo 'plot 1,4,2,6,5' | xmgrsh --dry-run
`)
}

// printError prints an error message to stderr.
func printError(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}

// =============================================================================
// Transport Setup
// =============================================================================

// connect returns the transport for this run: stdout in dry-run mode,
// otherwise a freshly launched xmgr.
func connect(cfg Config, dryRun bool) (xmgrprotocol.Transport, error) {
	if dryRun {
		return xmgrprotocol.NewWriterTransport(os.Stdout), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), xmgrprotocol.StartupTimeout)
	defer cancel()

	proc, err := xmgrprotocol.Launch(ctx, xmgrprotocol.LaunchConfig{
		Program: cfg.Program,
		Args:    cfg.Args,
		Stderr:  os.Stderr,
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "xmgr started (PID: %d)\n", proc.Pid())
	return proc, nil
}

// cleanupOnce returns a function that runs steps in order the first time
// it is called. Later and concurrent calls wait for that run and return.
// The signal handler and the normal exit path share it.
func cleanupOnce(steps ...func()) func() {
	return sync.OnceFunc(func() {
		for _, step := range steps {
			step()
		}
	})
}

// setupSignalHandler runs cleanup and exits on SIGINT or SIGTERM.
//
// GO CONCEPT: Goroutines and Channels
// -----------------------------------
// signal.Notify delivers signals on a channel. A goroutine blocks on that
// channel so the main goroutine can keep reading input.
func setupSignalHandler(cleanup func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println()
		cleanup()
		os.Exit(0)
	}()
}

// =============================================================================
// Main
// =============================================================================

func main() {
	args, err := parseArguments(os.Args[1:])
	if err != nil {
		printError(err.Error())
		printUsage()
		os.Exit(1)
	}
	if args.showHelp {
		printUsage()
		return
	}
	if args.showVersion {
		fmt.Println(fullTitle())
		return
	}

	configPath := args.configPath
	if configPath == "" {
		configPath = defaultConfigPath()
	}
	configPath = expandHome(configPath)
	if args.initConfig {
		if err := writeDefaultConfig(configPath); err != nil {
			printError(err.Error())
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", configPath)
		return
	}

	cfg, err := loadConfig(configPath, args.configPath != "")
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}
	cfg.applyArguments(args)
	if err := cfg.validate(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
	xmgrprotocol.SetWireMode(cfg.wireMode())

	var logger *traceLogger
	if cfg.Log != "" {
		logger, err = newTraceLogger(expandHome(cfg.Log))
		if err != nil {
			printError(err.Error())
			os.Exit(1)
		}
	}

	transport, err := connect(cfg, args.dryRun)
	if err != nil {
		printError(fmt.Sprintf("Failed to start xmgr: %v", err))
		if errors.Is(err, xmgrprotocol.ErrProcessExited) {
			printError("xmgr exited during startup; check that it supports -npipe/-pipe")
		}
		logger.Close()
		os.Exit(1)
	}

	var opts []xmgrprotocol.SessionOption
	if logger != nil {
		opts = append(opts, xmgrprotocol.WithLogger(logger))
	}
	session := xmgrprotocol.Init(transport, opts...)
	if err := session.SetDefaults(cfg.Defaults); err != nil {
		printError(fmt.Sprintf("config defaults: %v", err))
		xmgrprotocol.Shutdown()
		logger.Close()
		os.Exit(1)
	}

	historyPath := ""
	if cfg.History != "" {
		historyPath = expandHome(cfg.History)
	}
	editor := NewLineEditor(historyPath)

	cleanup := cleanupOnce(
		editor.Close,
		func() { xmgrprotocol.Shutdown() },
		func() { logger.Close() },
	)
	setupSignalHandler(cleanup)

	if editor.IsInteractive() {
		fmt.Print(welcomeBanner(cfg.wireMode()))
	}

	r := &repl{
		session:    session,
		editor:     editor,
		out:        os.Stdout,
		errOut:     os.Stderr,
		fixedMode:  !args.dryRun,
		showPrompt: !args.dryRun,
	}
	runErr := r.run()
	cleanup()
	if runErr != nil {
		os.Exit(1)
	}
}
