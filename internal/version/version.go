package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the play CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the toolchain.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with its major, minor and patch parts colored.
// Anything that is not a dotted triple is returned unchanged.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version
	}
	out := versionMajorColor.Sprint(parts[0]) + "." + versionMinorColor.Sprint(parts[1]) + "." + versionPatchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Summary is the text printed by `play version`.
func Summary() string {
	var b strings.Builder
	b.WriteString("play " + Colored() + "\n")
	if GitCommit != "" {
		b.WriteString("commit: " + GitCommit)
		if GitMessage != "" {
			b.WriteString(" (" + GitMessage + ")")
		}
		b.WriteString("\n")
	}
	if BuildDate != "" {
		b.WriteString("built: " + BuildDate + "\n")
	}
	return b.String()
}
