package wysiwyg

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultCapacity is the undo ring capacity used when none is configured.
const DefaultCapacity = 50

// Options configures an Editor.
type Options struct {
	// Capacity is the number of undo ring slots. Zero means "use the
	// default"; a negative value disables undo logging entirely (pushes
	// become no-ops).
	Capacity int `yaml:"capacity"`

	// Logger receives debug-level traces of capture, normalization, and
	// replay. Defaults to slog.Default().
	Logger *slog.Logger `yaml:"-"`
}

func (o *Options) defaults() {
	if o.Capacity == 0 {
		o.Capacity = DefaultCapacity
	}
}

// optionsFile is the YAML shape. Capacity is a pointer so an explicit
// "capacity: 0" (disable undo) is distinguishable from an absent key
// (use the default).
type optionsFile struct {
	Capacity *int `yaml:"capacity"`
}

// LoadOptionsFile reads editor options from a YAML file.
func LoadOptionsFile(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f optionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	opts := &Options{Capacity: DefaultCapacity}
	if f.Capacity != nil {
		if *f.Capacity <= 0 {
			opts.Capacity = -1
		} else {
			opts.Capacity = *f.Capacity
		}
	}
	return opts, nil
}
