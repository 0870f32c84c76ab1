package store

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID prefixes. They keep tokens readable in CLI output (prj-xxxxxxxx, crd-xxxxxxxx, ...).
const (
	PrefixProject = "prj"
	PrefixColumn  = "col"
	PrefixCard    = "crd"
	PrefixSubtask = "sub"
)

var idEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// newRandomID returns prefix-<suffix> where suffix is n base32 chars drawn from a random UUID.
func newRandomID(prefix string, n int) (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	suffix := strings.ToLower(idEncoding.EncodeToString(u[:]))
	if n > 0 && n < len(suffix) {
		suffix = suffix[:n]
	}
	return prefix + "-" + suffix, nil
}

// NextID returns a fresh id that does not collide with any live entity.
func (db *DB) NextID(prefix string) string {
	for _, n := range []int{8, 10, 13} {
		for i := 0; i < 20; i++ {
			id, err := newRandomID(prefix, n)
			if err != nil {
				break
			}
			if !db.idExists(id) {
				return id
			}
		}
	}
	// Extremely unlikely fallback: a full uuid.
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

func (db *DB) idExists(id string) bool {
	if _, ok := db.FindProject(id); ok {
		return true
	}
	if _, ok := db.FindColumn(id); ok {
		return true
	}
	if _, ok := db.FindCard(id); ok {
		return true
	}
	_, ok := db.FindSubtask(id)
	return ok
}

// KindForID infers the entity kind from an id prefix ("project", "column", "card", "subtask").
func KindForID(id string) string {
	pfx, _, _ := strings.Cut(strings.TrimSpace(id), "-")
	switch pfx {
	case PrefixProject:
		return "project"
	case PrefixColumn:
		return "column"
	case PrefixCard:
		return "card"
	case PrefixSubtask:
		return "subtask"
	default:
		return ""
	}
}
