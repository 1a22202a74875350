package config

import (
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

var (
	currentCharMap     *charmap.Charmap = charmap.Windows1252
	currentCharMapLock sync.RWMutex
)

// SetEncoding selects charmap used to decode strings stored in files.
// Expected to be called once on startup.
func SetEncoding(name string) error {
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			if cm.String() == name {
				currentCharMapLock.Lock()
				currentCharMap = cm
				currentCharMapLock.Unlock()
				return nil
			}
		}
	}
	return errors.Errorf("Failed to find encoding %q", name)
}

func ListEncodings() []string {
	list := make([]string, 0)
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}

func GetEncoding() *charmap.Charmap {
	currentCharMapLock.RLock()
	defer currentCharMapLock.RUnlock()
	return currentCharMap
}
