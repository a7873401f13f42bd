package watchlist

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/kaptinlin/jsonrepair"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML watchlist. Two shapes are accepted:
//
//	watchlist:
//	  - sym: BBCA
//	    price: 9500
//
// or the bare top-level list. Symbols are upper-cased before validation.
// Files ending in .json are repaired first (trailing commas, single quotes,
// unquoted keys) and then parsed the same way.
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		repaired, err := jsonrepair.JSONRepair(string(data))
		if err != nil {
			return nil, errors.Wrapf(err, "repair %s", path)
		}
		data = []byte(repaired)
	}
	entries, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return entries, nil
}

func Parse(data []byte) ([]Entry, error) {
	var items []Entry
	if err := yaml.Unmarshal(data, &items); err != nil {
		// Try map form: watchlist key holding the list
		var alt struct {
			Watchlist []Entry `yaml:"watchlist"`
		}
		if err2 := yaml.Unmarshal(data, &alt); err2 != nil {
			return nil, err
		}
		items = alt.Watchlist
	}

	for i := range items {
		items[i].Symbol = strings.ToUpper(strings.TrimSpace(items[i].Symbol))
		if err := items[i].Validate(); err != nil {
			return nil, errors.Wrapf(err, "item %d", i)
		}
	}
	return items, nil
}

// Seed upserts every entry into s.
func Seed(s Store, entries []Entry) error {
	for _, e := range entries {
		if err := s.Upsert(e); err != nil {
			return err
		}
	}
	return nil
}
