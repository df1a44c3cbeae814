// File: lox_test.go
// Title: Lox Engine Tests
// Description: End-to-end tests driven by the YAML conformance fixture plus
//              tests for result classification and concurrent use.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial test suite

package lox

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"

	"gopkg.in/yaml.v3"

	mdwerror "github.com/themifi/relox/foundation/core/error"
	mdwlog "github.com/themifi/relox/foundation/core/log"
	"github.com/themifi/relox/foundation/lox/token"
)

type conformanceCase struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Status string `yaml:"status"`
	Output string `yaml:"output"`
}

func loadConformance(t *testing.T) []conformanceCase {
	t.Helper()
	data, err := os.ReadFile("testdata/conformance.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var fixture struct {
		Cases []conformanceCase `yaml:"cases"`
	}
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	if len(fixture.Cases) == 0 {
		t.Fatal("fixture has no cases")
	}
	return fixture.Cases
}

func quietEngine() *Engine {
	return New(Options{Logger: mdwlog.Discard()})
}

func TestRun_Conformance(t *testing.T) {
	engine := quietEngine()

	for _, tc := range loadConformance(t) {
		t.Run(tc.Name, func(t *testing.T) {
			result := engine.Run(tc.Source)

			if got := result.Status().String(); got != tc.Status {
				t.Errorf("Status() = %s, want %s", got, tc.Status)
			}
			if got := result.Output(); got != tc.Output {
				t.Errorf("Output() = %q, want %q", got, tc.Output)
			}
		})
	}
}

func TestRun_NumberRoundTrip(t *testing.T) {
	engine := quietEngine()
	for _, src := range []string{"0", "1", "2.5", "123.456", "0.001", "9007199254740993"} {
		result := engine.Run(src)
		tokens, _ := engine.Scan(src)
		want := tokens[0].Literal.(float64)
		if result.Status() != StatusOK {
			t.Fatalf("Run(%s) failed: %s", src, result.Output())
		}
		rescanned, _ := engine.Scan(result.Output())
		if rescanned[0].Literal.(float64) != want {
			t.Errorf("%s displayed as %s which does not round-trip", src, result.Output())
		}
	}
}

func TestRun_SyntaxErrorsSkipEvaluation(t *testing.T) {
	result := quietEngine().Run("1 + @")

	if result.Expr != nil || result.Value != nil || result.Runtime != nil {
		t.Errorf("tree evaluated despite diagnostics: %+v", result)
	}
	if len(result.Diagnostics) != 2 {
		t.Errorf("got %d diagnostics, want lexical and syntax: %v", len(result.Diagnostics), result.Diagnostics)
	}
	if result.Status().ExitCode() != 65 {
		t.Errorf("ExitCode() = %d, want 65", result.Status().ExitCode())
	}
	if !mdwerror.HasCode(result.Err(), mdwerror.CodeLoxLexical) {
		t.Errorf("Err() code = %v", mdwerror.GetCode(result.Err()))
	}
}

func TestRun_RuntimeError(t *testing.T) {
	result := quietEngine().Run("-nil")

	if result.Status() != StatusRuntimeError || result.Status().ExitCode() != 70 {
		t.Errorf("Status() = %v", result.Status())
	}
	if result.Expr == nil {
		t.Error("Expr should be kept for a runtime failure")
	}
	if !mdwerror.HasCode(result.Err(), mdwerror.CodeLoxRuntime) {
		t.Errorf("Err() code = %v", mdwerror.GetCode(result.Err()))
	}
}

func TestRun_Success(t *testing.T) {
	result := quietEngine().Run("1 + 2")

	if result.Err() != nil {
		t.Errorf("Err() = %v, want nil", result.Err())
	}
	if result.Tokens[len(result.Tokens)-1].Kind != token.EOF {
		t.Error("token stream must end in EOF")
	}
	if result.Expr.String() != "(+ 1 2)" {
		t.Errorf("Expr = %s", result.Expr)
	}
}

func TestNew_MaxDepth(t *testing.T) {
	engine := New(Options{Logger: mdwlog.Discard(), MaxDepth: 2})
	if engine.MaxDepth() != 2 {
		t.Errorf("MaxDepth() = %d, want 2", engine.MaxDepth())
	}
	result := engine.Run("((1))")
	if result.Status() != StatusSyntaxError || !strings.Contains(result.Output(), "maximum depth of 2") {
		t.Errorf("Output() = %q", result.Output())
	}
	if !mdwerror.HasCode(result.Err(), mdwerror.CodeLoxDepth) {
		t.Errorf("Err() code = %v", mdwerror.GetCode(result.Err()))
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []Status{StatusOK, StatusSyntaxError, StatusRuntimeError} {
		got, ok := ParseStatus(s.String())
		if !ok || got != s {
			t.Errorf("ParseStatus(%q) = %v, %v", s.String(), got, ok)
		}
	}
	if _, ok := ParseStatus("bogus"); ok {
		t.Error("ParseStatus(bogus) should fail")
	}
}

func TestEngine_ConcurrentRuns(t *testing.T) {
	engine := quietEngine()
	var wg sync.WaitGroup
	errs := make(chan string, 64)

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if out := engine.Run("(2 + 3) * 4").Output(); out != "20" {
				errs <- out
			}
		}()
	}
	wg.Wait()
	close(errs)

	for out := range errs {
		t.Errorf("concurrent Run() = %q, want 20", out)
	}
}

func TestRun_LogsTimerAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelInfo, Format: mdwlog.FormatText, Output: &buf})

	New(Options{Logger: logger}).Run("1 +")
	if buf.Len() != 0 {
		t.Errorf("engine logged above debug: %q", buf.String())
	}

	buf.Reset()
	New(Options{Logger: logger.WithLevel(mdwlog.LevelDebug)}).Run("1 +")
	if !strings.Contains(buf.String(), "lox.run completed") || !strings.Contains(buf.String(), "status=syntax_error") {
		t.Errorf("log output = %q", buf.String())
	}
}
