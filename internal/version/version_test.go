package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColoredWithoutColor(t *testing.T) {
	saved, savedNo := Version, color.NoColor
	defer func() { Version, color.NoColor = saved, savedNo }()
	color.NoColor = true

	for in, want := range map[string]string{
		"1.2.3":      "1.2.3",
		"0.1.0-dev":  "0.1.0-dev",
		"2.0":        "2.0",
		"1.2.3-rc.1": "1.2.3-rc.1",
	} {
		Version = in
		if got := Colored(); got != want {
			t.Errorf("Colored(%q) = %q", in, got)
		}
	}
}

func TestColoredWithColor(t *testing.T) {
	saved, savedNo := Version, color.NoColor
	defer func() { Version, color.NoColor = saved, savedNo }()
	color.NoColor = false

	Version = "1.2.3"
	if got := Colored(); got == "1.2.3" {
		t.Error("Colored did not add escape sequences")
	}
}
