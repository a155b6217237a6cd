// Package seed supplies the initial record collections, from the embedded
// demo data, a JSON file, or a MongoDB database.
package seed

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/harentsoaR/care-tracker-api/internal/models"
	"github.com/harentsoaR/care-tracker-api/internal/store"
)

// userDoc is models.User with its password exposed; the API hides it.
type userDoc struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	Name       string      `json:"name"`
	Role       models.Role `json:"role"`
	AssignedTo string      `json:"assignedTo,omitempty"`
}

type document struct {
	Users      []userDoc          `json:"users"`
	Milestones []models.Milestone `json:"milestones"`
	Tests      []models.Test      `json:"tests"`
	CareTips   []models.CareTip   `json:"careTips"`
	Messages   []models.Message   `json:"messages"`
}

//go:embed data/seed.json
var defaultSeed []byte

// Default returns the embedded demo data.
func Default() (store.Seed, error) {
	return Decode(bytes.NewReader(defaultSeed))
}

// LoadFile reads a JSON seed file.
func LoadFile(path string) (store.Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return store.Seed{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a JSON seed document. Unknown fields are rejected so that
// typos in hand-written seeds do not silently drop data.
func Decode(r io.Reader) (store.Seed, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return store.Seed{}, fmt.Errorf("decode seed: %w", err)
	}

	s := store.Seed{
		Milestones: doc.Milestones,
		Tests:      doc.Tests,
		CareTips:   doc.CareTips,
		Messages:   doc.Messages,
	}
	for _, u := range doc.Users {
		s.Users = append(s.Users, models.User(u))
	}
	return s, nil
}

// Encode writes s as indented JSON, in the format Decode reads.
func Encode(w io.Writer, s store.Seed) error {
	doc := document{
		Milestones: s.Milestones,
		Tests:      s.Tests,
		CareTips:   s.CareTips,
		Messages:   s.Messages,
	}
	for _, u := range s.Users {
		doc.Users = append(doc.Users, userDoc(u))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
