package version

import (
	"regexp"
	"runtime"
	"strings"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersionConstants(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"Product", Product},
		{"Interpreter", Interpreter},
		{"Server", Server},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !semverRegex.MatchString(tt.version) {
				t.Errorf("%s version %q does not match semver format (x.y.z)", tt.name, tt.version)
			}
		})
	}
}

func TestServiceVersion(t *testing.T) {
	tests := []struct {
		name     string
		service  string
		expected string
	}{
		{"interpreter", "interpreter", Interpreter},
		{"lox alias", "lox", Interpreter},
		{"server", "server", Server},
		{"unknown component", "unknown", Product},
		{"empty component", "", Product},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ServiceVersion(tt.service); got != tt.expected {
				t.Errorf("ServiceVersion(%q) = %q, want %q", tt.service, got, tt.expected)
			}
		})
	}
}

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Product || info.Protocol != Protocol {
		t.Errorf("Get() = %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}

	s := info.String()
	if !strings.HasPrefix(s, "relox "+Product) || !strings.Contains(s, "relox.v1") {
		t.Errorf("String() = %q", s)
	}
}
