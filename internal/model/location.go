package model

import (
	"fmt"
	"strings"
)

// Location is a physical place holding stock and making sales.
type Location string

const (
	LocationStore     Location = "STORE"
	LocationWarehouse Location = "WAREHOUSE"
)

var Locations = []Location{LocationStore, LocationWarehouse}

func (l Location) Valid() bool {
	for _, known := range Locations {
		if l == known {
			return true
		}
	}
	return false
}

// ParseLocation accepts any casing ("store", "Store", "STORE").
func ParseLocation(s string) (Location, error) {
	l := Location(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unknown location %q", s)
	}
	return l, nil
}
