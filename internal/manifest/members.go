package manifest

import (
	"io"

	"github.com/BurntSushi/toml"
)

// Members is the member list of a root manifest's [workspace] section.
// Entries are returned verbatim, glob patterns included.
type Members struct {
	Include []string
	Exclude []string
}

type rootManifest struct {
	Workspace struct {
		Members []string `toml:"members"`
		Exclude []string `toml:"exclude"`
	} `toml:"workspace"`
}

// LoadMembers reads the workspace member list from the root manifest at path.
func LoadMembers(path string) (*Members, error) {
	var m rootManifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return &Members{Include: m.Workspace.Members, Exclude: m.Workspace.Exclude}, nil
}

// ParseMembers decodes the [workspace] members and exclude arrays from r.
func ParseMembers(r io.Reader) (*Members, error) {
	var m rootManifest
	if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	return &Members{Include: m.Workspace.Members, Exclude: m.Workspace.Exclude}, nil
}
