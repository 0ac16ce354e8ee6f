package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding): ~40 bits of space, plenty for a workspace.
func newRandomID(prefix string) (string, error) {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return prefix + "-" + strings.ToLower(enc.EncodeToString(b[:])), nil
}

func idExists(db *DB, id string) bool {
	for _, t := range db.Tasks {
		if t.ID == id {
			return true
		}
	}
	for _, e := range db.Employees {
		if e.ID == id {
			return true
		}
	}
	for _, c := range db.Crews {
		if c.ID == id {
			return true
		}
	}
	for _, c := range db.Clients {
		if c.ID == id {
			return true
		}
	}
	for _, l := range db.ClientLocations {
		if l.ID == id {
			return true
		}
	}
	return false
}
