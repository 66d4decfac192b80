// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for isolating configuration, replacing
// interactive input and capturing output.
package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ahasecret/ahasecret/internal/binstore/binstoretest"
	"github.com/ahasecret/ahasecret/internal/configs"
	"github.com/ahasecret/ahasecret/internal/utils"
)

// setupTestEnvironment points configuration and history at a temp directory,
// resets command state and starts a fake server. Everything is restored when
// the test ends.
func setupTestEnvironment(t *testing.T) *binstoretest.Server {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	tempDir := t.TempDir()
	originalSettings := configs.Settings
	originalReadSecret := readSecret
	originalReadPassword := readPassword
	originalConfirm := confirm

	configs.Settings = &configs.UserSettings{
		ConfigDir:  filepath.Join(tempDir, "config"),
		ConfigPath: filepath.Join(tempDir, "config", "config.toml"),
		DataDir:    filepath.Join(tempDir, "data"),
	}

	readSecret = func() ([]byte, error) {
		t.Fatal("unexpected read from stdin")
		return nil, nil
	}
	readPassword = func(prompt string) ([]byte, error) {
		t.Fatalf("unexpected password prompt %q", prompt)
		return nil, nil
	}
	confirm = func(prompt string) (bool, error) {
		t.Fatalf("unexpected confirmation prompt %q", prompt)
		return false, nil
	}

	ResetGlobalState()

	server := binstoretest.NewServer()

	t.Cleanup(func() {
		server.Close()
		configs.Settings = originalSettings
		readSecret = originalReadSecret
		readPassword = originalReadPassword
		confirm = originalConfirm
		ResetGlobalState()
	})

	return server
}

// withStdin makes the command read secret as if it were piped in.
func withStdin(secret string) {
	readSecret = func() ([]byte, error) {
		return utils.ReadLimited(strings.NewReader(secret), utils.MaxPlaintextLength)
	}
}

// withPasswords answers password prompts in order and fails the test if
// more prompts are made.
func withPasswords(t *testing.T, passwords ...string) *[]string {
	t.Helper()
	var prompts []string
	readPassword = func(prompt string) ([]byte, error) {
		prompts = append(prompts, prompt)
		if len(passwords) == 0 {
			t.Fatalf("unexpected password prompt %q", prompt)
		}
		password := passwords[0]
		passwords = passwords[1:]
		return []byte(password), nil
	}
	return &prompts
}

// withConfirmation answers the reveal confirmation.
func withConfirmation(answer bool) *int {
	asked := 0
	confirm = func(prompt string) (bool, error) {
		asked++
		return answer, nil
	}
	return &asked
}

// runCLI executes the root command with args and captures stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	ResetGlobalState()
	if args == nil {
		args = []string{}
	}
	RootCmd.SetArgs(args)
	return captureOutput(func() error {
		return Execute(context.Background())
	})
}

// captureOutput captures stdout and stderr during function execution.
func captureOutput(fn func() error) (string, string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, stdoutReader)
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, stderrReader)
		stderrChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan, <-stderrChan, err
}
