package universe

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/wonny/momentum-ranker/internal/ticker"
)

// ErrUnknownList is returned by Get for a name not in the file
var ErrUnknownList = errors.New("unknown universe")

// File is a set of named ticker lists
type File struct {
	Lists []List `yaml:"lists"`
}

// List is one named universe
type List struct {
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description,omitempty"`
	ExchangeSuffix string   `yaml:"exchange_suffix"` // provider lookup suffix, "" for none
	ChartExchange  string   `yaml:"chart_exchange,omitempty"`
	Tickers        []string `yaml:"tickers"`
}

// ValidationError 검증 실패
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads a universe YAML file
// KnownFields(true): 오타/미사용 필드 즉시 실패
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates universe YAML
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode universe: %w", err)
	}

	if err := Validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadOrDefault loads path, or returns the built-in file when path is empty
func LoadOrDefault(path string) (*File, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks names are present and unique and every list has tickers
func Validate(f *File) error {
	if len(f.Lists) == 0 {
		return ValidationError{"lists", "at least one list required"}
	}

	seen := make(map[string]struct{}, len(f.Lists))
	for i, l := range f.Lists {
		field := fmt.Sprintf("lists[%d]", i)
		if l.Name == "" {
			return ValidationError{field + ".name", "required"}
		}
		if _, dup := seen[l.Name]; dup {
			return ValidationError{field + ".name", fmt.Sprintf("duplicate list %q", l.Name)}
		}
		seen[l.Name] = struct{}{}

		if len(ticker.Normalize(l.Tickers)) == 0 {
			return ValidationError{field + ".tickers", "at least one ticker required"}
		}
	}
	return nil
}

// Get returns the named list's tickers, trimmed, uppercased, deduplicated and sorted
func (f *File) Get(name string) ([]string, error) {
	l, err := f.List(name)
	if err != nil {
		return nil, err
	}
	return ticker.Normalize(l.Tickers), nil
}

// List returns the named list
func (f *File) List(name string) (*List, error) {
	for i := range f.Lists {
		if f.Lists[i].Name == name {
			return &f.Lists[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownList, name)
}

// Names returns the list names, sorted
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Lists))
	for _, l := range f.Lists {
		names = append(names, l.Name)
	}
	sort.Strings(names)
	return names
}
