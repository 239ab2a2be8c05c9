// Package version carries build identification injected via -ldflags.
package version

var (
	Version   = ""
	Commit    = ""
	BuildTime = ""
)

// Info is a resolved snapshot of the build identification.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
}

// Resolve returns the injected build info, substituting a fallback
// version for local builds without ldflags.
func Resolve() Info {
	v := Version
	if v == "" {
		if BuildTime != "" {
			v = BuildTime
		} else {
			v = "dev"
		}
	}
	return Info{Version: v, Commit: Commit, BuildTime: BuildTime}
}
