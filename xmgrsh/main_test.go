// =============================================================================
// main_test.go - Tests for CLI Entry Point (main.go)
// =============================================================================

package main

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timj/xmgr-go/xmgrprotocol"
)

func TestFullTitle(t *testing.T) {
	assert.Equal(t, "xmgrsh v"+version, fullTitle())
}

func TestWelcomeBanner(t *testing.T) {
	banner := welcomeBanner(xmgrprotocol.Streaming)

	assert.True(t, strings.HasPrefix(banner, fullTitle()))
	assert.Contains(t, banner, "Wire mode: stream")
	assert.Contains(t, banner, ".help")
	assert.Contains(t, banner, ".quit")
	assert.True(t, strings.HasSuffix(banner, "\n"))
}

func TestParseArgumentsDefaults(t *testing.T) {
	args, err := parseArguments(nil)
	require.NoError(t, err)
	assert.Equal(t, arguments{}, args)
}

func TestParseArguments(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want arguments
	}{
		{"config", []string{"--config", "/tmp/x.yaml"}, arguments{configPath: "/tmp/x.yaml"}},
		{"program", []string{"--program", "/opt/xmgr/bin/xmgr"}, arguments{program: "/opt/xmgr/bin/xmgr"}},
		{"log", []string{"--log", "trace.log"}, arguments{logPath: "trace.log"}},
		{"stream", []string{"--stream"}, arguments{wire: "stream"}},
		{"named", []string{"--named"}, arguments{wire: "named"}},
		{"last wire flag wins", []string{"--named", "--stream"}, arguments{wire: "stream"}},
		{"dry run", []string{"--dry-run"}, arguments{dryRun: true}},
		{"dry run short", []string{"-n"}, arguments{dryRun: true}},
		{"init config", []string{"--init-config"}, arguments{initConfig: true}},
		{"help", []string{"-h"}, arguments{showHelp: true}},
		{"version", []string{"--version"}, arguments{showVersion: true}},
		{
			"combined",
			[]string{"--stream", "--program", "xmgr5", "-n"},
			arguments{wire: "stream", program: "xmgr5", dryRun: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseArguments(tc.argv)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseArgumentsErrors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		msg  string
	}{
		{"unknown flag", []string{"--bogus"}, "unknown argument: --bogus"},
		{"missing config value", []string{"--config"}, "--config requires an argument"},
		{"missing program value", []string{"--stream", "--program"}, "--program requires an argument"},
		{"missing log value", []string{"--log"}, "--log requires an argument"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseArguments(tc.argv)
			require.Error(t, err)
			assert.Equal(t, tc.msg, err.Error())
		})
	}
}

func TestConnectDryRun(t *testing.T) {
	transport, err := connect(defaultConfig(), true)
	require.NoError(t, err)
	assert.IsType(t, &xmgrprotocol.WriterTransport{}, transport)
}

func TestCleanupOnceRunsStepsOnce(t *testing.T) {
	var mu sync.Mutex
	var order []string
	step := func(name string) func() {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
		}
	}
	cleanup := cleanupOnce(step("editor"), step("session"), step("log"))

	// A signal arriving during the normal exit path calls cleanup again.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cleanup()
		}()
	}
	wg.Wait()
	cleanup()

	assert.Equal(t, []string{"editor", "session", "log"}, order)
}
