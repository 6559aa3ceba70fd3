package cmd

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/msto63/oil/foundation/core/error"
	mdwlog "github.com/msto63/oil/foundation/core/log"
	"github.com/msto63/oil/internal/oild/service"
	coregrpc "github.com/msto63/oil/pkg/core/grpc"
	"github.com/msto63/oil/pkg/core/health"
)

// writeConfig writes a quiet TOML config followed by extra sections
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oil.toml")
	content := "[general]\nlog_level = \"error\"\n\n" + extra
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// run executes the root command with stdin and returns stdout and stderr
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestParse(t *testing.T) {
	cfg := writeConfig(t, "")

	tests := []struct {
		name       string
		stdin      string
		args       []string
		wantOut    []string
		wantErrOut []string
		reported   bool
	}{
		{
			name:    "json",
			stdin:   "a + b",
			args:    []string{"parse"},
			wantOut: []string{`"!exp": "b"`, `"operator": "+"`},
		},
		{
			name:    "oil",
			stdin:   "1 + 2 * 3",
			args:    []string{"parse", "--format", "oil"},
			wantOut: []string{"(1 + (2 * 3))"},
		},
		{
			name:    "yaml",
			stdin:   "eight 8",
			args:    []string{"parse", "-f", "yaml"},
			wantOut: []string{": eight", ": 8"},
		},
		{
			name:    "compact json",
			stdin:   "a",
			args:    []string{"parse", "--indent", "0"},
			wantOut: []string{`[{"!exp":"i","identifier":"a"}]`},
		},
		{
			name:    "detailed range",
			stdin:   "x = a + b) tail",
			args:    []string{"parse", "--one", "--start", "4", "--stop", ")", "--detailed"},
			wantOut: []string{`"end": 9`, `"expression"`, `"operator": "+"`},
		},
		{
			name:       "syntax error",
			stdin:      "a + )",
			args:       []string{"parse"},
			wantErrOut: []string{"<stdin>:1:5:", "[NOT_A_PRIMARY_EXPRESSION]", "^"},
			reported:   true,
		},
		{
			name:       "detailed syntax error",
			stdin:      "a + )",
			args:       []string{"parse", "--detailed"},
			wantOut:    []string{`"code": "NOT_A_PRIMARY_EXPRESSION"`, `"end": 0`},
			wantErrOut: []string{"<stdin>:1:5:"},
			reported:   true,
		},
		{
			name:       "lex error",
			stdin:      `"open`,
			args:       []string{"parse"},
			wantErrOut: []string{"[UNTERMINATED_LITERAL]"},
			reported:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, err := run(t, tt.stdin, append([]string{"--config", cfg}, tt.args...)...)
			if tt.reported {
				if !errors.Is(err, ErrReported) {
					t.Fatalf("error = %v, want ErrReported", err)
				}
			} else if err != nil {
				t.Fatalf("error = %v\nstderr: %s", err, errOut)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out, want) {
					t.Errorf("stdout missing %q:\n%s", want, out)
				}
			}
			for _, want := range tt.wantErrOut {
				if !strings.Contains(errOut, want) {
					t.Errorf("stderr missing %q:\n%s", want, errOut)
				}
			}
		})
	}
}

func TestParse_Files(t *testing.T) {
	cfg := writeConfig(t, "")
	good := writeFile(t, "good.oil", "box {a: 1}")
	bad := writeFile(t, "bad.oil", "box {")

	out, errOut, err := run(t, "", "--config", cfg, "parse", good, bad)
	if !errors.Is(err, ErrReported) {
		t.Fatalf("error = %v, want ErrReported", err)
	}
	if !strings.Contains(out, `"!type": "box"`) {
		t.Errorf("stdout missing the good file:\n%s", out)
	}
	if !strings.Contains(errOut, bad) {
		t.Errorf("stderr does not name %s:\n%s", bad, errOut)
	}

	_, _, err = run(t, "", "--config", cfg, "parse", filepath.Join(t.TempDir(), "missing.oil"))
	if err == nil || errors.Is(err, ErrReported) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestParse_ConfigDefaults(t *testing.T) {
	cfg := writeConfig(t, "[parser]\nstop = \";\"\n\n[output]\nformat = \"oil\"\n")

	out, _, err := run(t, "a; b", "--config", cfg, "parse")
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if out != "a\n" {
		t.Errorf("stdout = %q, want only the statement before the stop", out)
	}
}

func TestParse_InvalidOptions(t *testing.T) {
	cfg := writeConfig(t, "")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"parse", "--format", "xml"}},
		{"detailed oil", []string{"parse", "--detailed", "--format", "oil"}},
		{"remote oil", []string{"parse", "--remote", "localhost:1", "--format", "oil"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "a", append([]string{"--config", cfg}, tt.args...)...)
			if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestRootConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code mdwerror.Code
	}{
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "none.toml"), "check"}, mdwerror.CodeConfigError},
		{"bad log level", []string{"--config", writeConfig(t, ""), "--log-level", "loud", "check"}, mdwerror.CodeInvalidConfig},
		{"bad log format", []string{"--config", writeConfig(t, ""), "--log-format", "xml", "check"}, mdwerror.CodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "a", tt.args...)
			if !mdwerror.HasCode(err, tt.code) {
				t.Errorf("error = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestLex(t *testing.T) {
	cfg := writeConfig(t, "")

	tests := []struct {
		name       string
		stdin      string
		args       []string
		wantOut    []string
		wantErrOut string
	}{
		{"table", "<b c> + a", []string{"lex"}, []string{"OFFSET", "identifier", "<b c>"}, ""},
		{"json", "x 1.5", []string{"lex", "-f", "json"}, []string{`"kind": "number"`, `"value": 1.5`}, ""},
		{"yaml", "x", []string{"lex", "-f", "yaml"}, []string{"kind: identifier"}, ""},
		{"error", `"open`, []string{"lex"}, nil, "[UNTERMINATED_LITERAL]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, err := run(t, tt.stdin, append([]string{"--config", cfg}, tt.args...)...)
			if tt.wantErrOut != "" {
				if !errors.Is(err, ErrReported) {
					t.Fatalf("error = %v, want ErrReported", err)
				}
				if !strings.Contains(errOut, tt.wantErrOut) {
					t.Errorf("stderr missing %q:\n%s", tt.wantErrOut, errOut)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out, want) {
					t.Errorf("stdout missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestCheck(t *testing.T) {
	cfg := writeConfig(t, "")
	good := writeFile(t, "good.oil", "states[x ? x.id == \"id1\" -> x]")
	bad := writeFile(t, "bad.oil", "a = \n)")

	out, _, err := run(t, "", "--config", cfg, "check", good, bad)
	if !errors.Is(err, ErrReported) {
		t.Fatalf("error = %v, want ErrReported", err)
	}
	for _, want := range []string{"OK", good, "FAIL", bad + ":2:1:", "2 checked, 1 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}

	out, _, err = run(t, "", "--config", cfg, "check", "--quiet", good)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if strings.Contains(out, "OK") || !strings.Contains(out, "1 checked, 0 failed") {
		t.Errorf("quiet output = %q", out)
	}
}

func TestVersion(t *testing.T) {
	// version skips configuration, so a broken config does not matter
	out, _, err := run(t, "", "--config", filepath.Join(t.TempDir(), "none.toml"), "version")
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	for _, want := range []string{"oil 0.2.0", "service:", "go:"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

// startService runs the parse service on a loopback port
func startService(t *testing.T) string {
	t.Helper()
	svc, err := service.New(service.Config{Logger: mdwlog.Discard()})
	if err != nil {
		t.Fatalf("service.New() error = %v", err)
	}

	server := coregrpc.NewServer(coregrpc.ServerConfig{Logger: mdwlog.Discard()})
	svc.Register(server.GRPCServer())

	registry := health.NewRegistry(service.ServiceName, "test")
	svc.RegisterChecks(registry)
	server.UpdateHealth(context.Background(), registry)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	go server.Serve(listener)
	t.Cleanup(server.Stop)

	return listener.Addr().String()
}

func TestParse_Remote(t *testing.T) {
	addr := startService(t)
	cfg := writeConfig(t, "")

	out, _, err := run(t, "eight 8; a ?? b", "--config", cfg, "parse", "--remote", addr, "--timeout", "5s")
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	for _, want := range []string{`"!ref": "eight"`, `"!exp": "??"`, `"end": 15`} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}

	_, errOut, err := run(t, "a +\n  )", "--config", cfg, "parse", "--remote", addr)
	if !errors.Is(err, ErrReported) {
		t.Fatalf("error = %v, want ErrReported", err)
	}
	if !strings.Contains(errOut, "<stdin>:2:3:") {
		t.Errorf("remote diagnostic not located:\n%s", errOut)
	}
}

func TestStatus(t *testing.T) {
	addr := startService(t)
	cfg := writeConfig(t, "[server]\nlive_port = -1\n")

	out, _, err := run(t, "", "--config", cfg, "status", "--target", addr)
	if err != nil {
		t.Fatalf("error = %v\n%s", err, out)
	}
	for _, want := range []string{"grpc", "parser", "SERVING", "status: healthy"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "live") {
		t.Errorf("disabled live endpoint probed:\n%s", out)
	}

	// Reserve a port and release it so nothing listens there
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	closed := listener.Addr().String()
	listener.Close()

	out, _, err = run(t, "", "--config", cfg, "status", "--target", closed, "--timeout", time.Second.String())
	if !errors.Is(err, ErrReported) {
		t.Errorf("error = %v, want ErrReported", err)
	}
	if !strings.Contains(out, "status: unhealthy") {
		t.Errorf("stdout = %s", out)
	}
}

func TestDialAddress(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 9300, "localhost:9300"},
		{"", 1, "localhost:1"},
		{"10.0.0.2", 9301, "10.0.0.2:9301"},
		{"::1", 80, "[::1]:80"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := dialAddress(tt.host, tt.port); got != tt.want {
				t.Errorf("dialAddress() = %v, want %v", got, tt.want)
			}
		})
	}
}
