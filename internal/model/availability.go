package model

import (
	"fmt"
	"strings"
)

type PlatformAvailability struct {
	Platform    string
	Introduced  string
	Deprecated  string
	Obsoleted   string
	Unavailable bool
	Message     string
}

// Availability of a declaration across platforms.
type Availability struct {
	Platforms   []PlatformAvailability
	Unavailable bool
	Message     string
}

func (a Availability) IsDeprecated() bool {
	for _, p := range a.Platforms {
		if p.Deprecated != "" {
			return true
		}
	}
	return false
}

// Doc renders a as doc comment lines. Deprecations use a trailing
// "Deprecated:" paragraph so tooling picks them up.
func (a Availability) Doc() []string {
	var (
		lines       []string
		available   []string
		unavailable []string
		deprecated  []string
		message     = a.Message
	)
	if a.Unavailable {
		lines = append(lines, "Unavailable on all platforms.")
	}
	for _, p := range a.Platforms {
		switch {
		case p.Unavailable:
			unavailable = append(unavailable, p.Platform)
		case p.Introduced != "":
			available = append(available, fmt.Sprintf("%s %s+", p.Platform, p.Introduced))
		}
		if p.Deprecated != "" {
			deprecated = append(deprecated, fmt.Sprintf("%s %s", p.Platform, p.Deprecated))
		}
		if p.Obsoleted != "" {
			lines = append(lines, fmt.Sprintf("Obsoleted on %s %s.", p.Platform, p.Obsoleted))
		}
		if message == "" && p.Message != "" {
			message = p.Message
		}
	}
	if len(available) > 0 {
		lines = append([]string{"Available on " + strings.Join(available, ", ") + "."}, lines...)
	}
	if len(unavailable) > 0 {
		lines = append(lines, "Unavailable on "+strings.Join(unavailable, ", ")+".")
	}
	if len(deprecated) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		dep := "Deprecated: deprecated on " + strings.Join(deprecated, ", ") + "."
		if message != "" {
			dep += " " + message
		}
		lines = append(lines, dep)
	}
	return lines
}
