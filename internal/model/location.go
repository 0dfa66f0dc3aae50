package model

import "strings"

// Location is the header a statement originates from.
type Location struct {
	Library string
	// File is the slash separated header path inside the library, without extension.
	File string
}

func (l Location) IsZero() bool {
	return l.Library == "" && l.File == ""
}

// Segments splits File into submodule names.
func (l Location) Segments() []string {
	if l.File == "" {
		return nil
	}
	return strings.Split(l.File, "/")
}

func (l Location) String() string {
	if l.File == "" {
		return l.Library
	}
	return l.Library + "/" + l.File
}

// ItemIdentifier names a declaration that can be referenced from other statements.
type ItemIdentifier struct {
	Name     string
	Location Location
}

func (i ItemIdentifier) String() string {
	if i.Location.IsZero() {
		return i.Name
	}
	return i.Location.String() + "." + i.Name
}

// Less orders identifiers by location then name.
func (i ItemIdentifier) Less(o ItemIdentifier) bool {
	if i.Location.Library != o.Location.Library {
		return i.Location.Library < o.Location.Library
	}
	if i.Location.File != o.Location.File {
		return i.Location.File < o.Location.File
	}
	return i.Name < o.Name
}
