package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/quizkeeper/internal/common"
)

// DocumentVersion is the envelope version this package understands.
const DocumentVersion = 1

// Document is the decrypted vault payload.
type Document struct {
	Settings Settings `json:"settings"`
	Quizzes  []*Quiz  `json:"quizzes"`
}

// NewDocument returns a document with default settings and no quizzes.
func NewDocument() *Document {
	return &Document{Settings: DefaultSettings(), Quizzes: []*Quiz{}}
}

// DecodeDocument decodes plaintext over a default document and upgrades it.
func DecodeDocument(plaintext []byte, version int) (*Document, error) {
	d := NewDocument()
	if err := json.Unmarshal(plaintext, d); err != nil {
		return nil, fmt.Errorf("%w: vault document: %w", common.ErrFormat, err)
	}
	if err := d.Upgrade(version); err != nil {
		return nil, err
	}
	return d, nil
}

// Upgrade brings a freshly decoded document up to the current schema.
// Applying it twice has no further effect.
func (d *Document) Upgrade(version int) error {
	if version != DocumentVersion {
		return fmt.Errorf("%w: %d", common.ErrUnsupportedVersion, version)
	}
	d.Settings.Normalize()
	if d.Quizzes == nil {
		d.Quizzes = []*Quiz{}
	}
	kept := d.Quizzes[:0]
	for _, q := range d.Quizzes {
		if q == nil {
			continue
		}
		if q.ChoicesCount == 0 {
			q.ChoicesCount = MinChoices
		}
		if !q.Difficulty.Valid() {
			q.Difficulty = d.Settings.Difficulty
		}
		if q.Submitted && q.Grade == nil {
			g := ComputeGrade(q)
			q.Grade = &g
		}
		q.clampIndex()
		kept = append(kept, q)
	}
	d.Quizzes = kept
	return nil
}

// AddQuiz appends q to the library.
func (d *Document) AddQuiz(q *Quiz) {
	d.Quizzes = append(d.Quizzes, q)
}

// FindQuiz returns the quiz with the given id, or nil.
func (d *Document) FindQuiz(id string) *Quiz {
	for _, q := range d.Quizzes {
		if q.ID == id {
			return q
		}
	}
	return nil
}

// RemoveQuiz deletes the quiz with the given id and reports whether it existed.
func (d *Document) RemoveQuiz(id string) bool {
	for i, q := range d.Quizzes {
		if q.ID == id {
			d.Quizzes = append(d.Quizzes[:i], d.Quizzes[i+1:]...)
			return true
		}
	}
	return false
}

// Sorted returns the quizzes in library order, most recently updated first.
func (d *Document) Sorted() []*Quiz {
	out := append([]*Quiz(nil), d.Quizzes...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Latest returns the most recently updated quiz, or nil.
func (d *Document) Latest() *Quiz {
	s := d.Sorted()
	if len(s) == 0 {
		return nil
	}
	return s[0]
}

// Resolve finds a quiz by 1-based position in library order or by id
// (a unique id prefix is accepted).
func (d *Document) Resolve(ref string) (*Quiz, error) {
	ref = strings.TrimSpace(ref)
	sorted := d.Sorted()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(sorted) {
			return nil, fmt.Errorf("quiz #%d: %w", n, common.ErrNotFound)
		}
		return sorted[n-1], nil
	}
	if q := d.FindQuiz(ref); q != nil {
		return q, nil
	}
	var match *Quiz
	for _, q := range d.Quizzes {
		if ref != "" && strings.HasPrefix(q.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("%w: ambiguous quiz id %q", common.ErrValidation, ref)
			}
			match = q
		}
	}
	if match == nil {
		return nil, fmt.Errorf("quiz %q: %w", ref, common.ErrNotFound)
	}
	return match, nil
}
