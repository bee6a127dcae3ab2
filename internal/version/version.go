package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

// Build metadata for the weave CLI, overridable with
// -ldflags "-X weave/internal/version.Version=...".
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var partColors = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Colored returns v with its major, minor and patch numbers coloured. The
// pre-release and build suffixes are left plain, and so is a v that is not
// a semantic version. color.NoColor disables the escapes.
func Colored(v string) string {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return v
	}
	nums := []uint64{sv.Major(), sv.Minor(), sv.Patch()}
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = partColors[i].Sprint(n)
	}
	out := strings.Join(parts, ".")
	if pre := sv.Prerelease(); pre != "" {
		out += "-" + pre
	}
	if meta := sv.Metadata(); meta != "" {
		out += "+" + meta
	}
	return out
}
