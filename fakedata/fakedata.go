// Package fakedata generates random but well-formed item payloads.
package fakedata

import (
	"strings"
	"sync"

	"github.com/contract-tests/items-contract-tests/servicedef"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const descriptionWords = 10

// Generator produces item payloads. It is safe for concurrent use. Two generators created with
// the same nonzero seed produce the same sequence of values.
type Generator struct {
	faker *gofakeit.Faker
	title cases.Caser
	lock  sync.Mutex
}

// NewGenerator creates a Generator. A seed of zero means a random seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		title: cases.Title(language.English),
	}
}

// Title returns a single capitalized word.
func (g *Generator) Title() string {
	g.lock.Lock()
	defer g.lock.Unlock()
	for {
		if words := strings.Fields(g.faker.Word()); len(words) != 0 {
			return g.title.String(words[0])
		}
	}
}

// Description returns a sentence of about ten words.
func (g *Generator) Description() string {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.faker.Sentence(descriptionWords)
}

func (g *Generator) ItemPayload() servicedef.ItemPayload {
	return servicedef.NewItemPayload(g.Title(), g.Description())
}
