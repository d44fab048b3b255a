package shotlist

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-cinematic/pkg/movement"
)

// List is an ordered sequence of shots, played in order.
type List struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Shots []Shot `json:"shots" yaml:"shots"`
}

// Parse decodes a YAML (or JSON, which is valid YAML) shot list.
func Parse(data []byte) (*List, error) {
	var list List
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("shotlist: %w", err)
	}
	for i, s := range list.Shots {
		if s.Operation == "" {
			return nil, fmt.Errorf("shot %d: %w", i+1, ErrNoOperation)
		}
	}
	return &list, nil
}

// Requests converts every shot, in order.
func (l *List) Requests() ([]movement.Request, error) {
	reqs := make([]movement.Request, 0, len(l.Shots))
	for i, s := range l.Shots {
		req, err := s.Request()
		if err != nil {
			return nil, fmt.Errorf("shot %d: %w", i+1, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// Read reads a shot list from a YAML file.
func Read(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Write writes a shot list to a YAML file.
func Write(list *List, path string) error {
	data, err := yaml.Marshal(list)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
