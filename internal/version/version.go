package version

import (
	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

// Build metadata for the tao CLI. Overridable at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// HIRFormat is the document format version written by `tao pack`.
const HIRFormat = "1.0.0"

// HIRFormatRange is the set of document format versions the loader accepts.
const HIRFormatRange = ">= 1.0.0, < 2.0.0"

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with a distinct color per component. Versions
// that do not parse are returned unchanged.
func Colored() string {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return Version
	}
	out := majorColor.Sprint(v.Major()) + "." + minorColor.Sprint(v.Minor()) + "." + patchColor.Sprint(v.Patch())
	if pre := v.Prerelease(); pre != "" {
		out += "-" + pre
	}
	if meta := v.Metadata(); meta != "" {
		out += "+" + meta
	}
	return out
}

// SupportsHIR reports whether a document declaring format version v can be
// loaded.
func SupportsHIR(v string) (bool, error) {
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return false, err
	}
	c, err := semver.NewConstraint(HIRFormatRange)
	if err != nil {
		return false, err
	}
	return c.Check(parsed), nil
}
