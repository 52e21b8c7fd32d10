package shape

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// BrillouinData is the group holding the first data set of a brim store
const BrillouinData = "Brillouin_data/Data_0"

// Group is a reference array and the arrays whose leading dimension must match it.
// If Prefix is set, it is prepended to the reference and dependent paths.
type Group struct {
	Prefix     string   `yaml:"prefix,omitempty"`
	Reference  string   `yaml:"reference"`
	Dependents []string `yaml:"dependents"`
}

// Groups is an ordered set of groups.  Checks visit groups, and dependents within
// a group, in declared order.
type Groups []Group

// DefaultGroups are the arrays of a brim store that share the spectrum count
var DefaultGroups = Groups{
	{
		Prefix:    BrillouinData,
		Reference: "Frequency",
		Dependents: []string{
			"PSD",
			"Analyzed_data/Amplitude_AS",
			"Analyzed_data/Amplitude_S",
			"Analyzed_data/Offset_AS",
			"Analyzed_data/Offset_S",
			"Analyzed_data/Shift_AS",
			"Analyzed_data/Shift_S",
			"Analyzed_data/Width_AS",
			"Analyzed_data/Width_S",
			"Spatial_map/x",
			"Spatial_map/y",
			"Spatial_map/z",
		},
	},
}

type groupsFile struct {
	Groups Groups `yaml:"groups"`
}

// Path resolves a path of the group against its prefix
func (g Group) Path(p string) string {
	return strings.Trim(path.Join(g.Prefix, p), "/")
}

// Paths returns every resolved path of every group, reference first
func (gs Groups) Paths() []string {
	var paths []string
	for _, g := range gs {
		paths = append(paths, g.Path(g.Reference))
		for _, d := range g.Dependents {
			paths = append(paths, g.Path(d))
		}
	}
	return paths
}

// Verify makes sure every group names a reference and non-empty dependent paths
func (gs Groups) Verify() error {
	for i, g := range gs {
		if strings.Trim(g.Reference, "/") == "" {
			return fmt.Errorf("group %d has no reference array", i)
		}
		for j, d := range g.Dependents {
			if strings.Trim(d, "/") == "" {
				return fmt.Errorf("group %d (%s) has an empty dependent at position %d", i, g.Reference, j)
			}
		}
	}
	return nil
}

// LoadGroups decodes groups from a yaml document of the form
//
//	groups:
//	  - prefix: Brillouin_data/Data_0
//	    reference: Frequency
//	    dependents: [PSD, Spatial_map/x]
func LoadGroups(r io.Reader) (Groups, error) {
	var f groupsFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "could not decode reference groups")
	}

	if f.Groups == nil {
		return nil, errors.New("no reference groups defined (missing groups: list)")
	}

	if err := f.Groups.Verify(); err != nil {
		return nil, errors.Wrap(err, "invalid reference groups")
	}
	return f.Groups, nil
}

// ReadGroups reads groups from a yaml file
func ReadGroups(file string) (groups Groups, err error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open reference groups at %s", file)
	}
	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = errors.Wrapf(e, "error closing file at %s", file)
		}
	}()

	return LoadGroups(f)
}

// Serialize writes groups in the format read by LoadGroups
func (gs Groups) Serialize(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(groupsFile{Groups: gs}); err != nil {
		return errors.Wrap(err, "could not encode reference groups")
	}
	return enc.Close()
}
