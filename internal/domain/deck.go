package domain

import (
	"fmt"
	"math/rand"
)

// Deck is an ordered pile of card instances. The top of the deck is the end
// of the Cards slice, so drawing pops from the back.
type Deck struct {
	Cards []*CardInstance
}

// NewDeck builds an unshuffled deck holding every copy the catalog grants
// one player. Instance ids are seat-scoped so the two decks of a match
// never collide: "p<seat>:<cardID>#<n>".
func NewDeck(cat *Catalog, seat int) *Deck {
	var cards []*CardInstance
	for _, def := range cat.Defs() {
		for n := 1; n <= def.Copies; n++ {
			cards = append(cards, &CardInstance{
				InstanceID: fmt.Sprintf("p%d:%s#%d", seat, def.ID, n),
				Def:        def,
			})
		}
	}
	return &Deck{Cards: cards}
}

// Shuffle reorders the deck uniformly at random.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Draw removes and returns up to n cards from the top. An exhausted deck
// yields fewer cards, or none; it is never an error.
func (d *Deck) Draw(n int) []*CardInstance {
	if n <= 0 || len(d.Cards) == 0 {
		return nil
	}
	if n > len(d.Cards) {
		n = len(d.Cards)
	}
	cut := len(d.Cards) - n
	drawn := make([]*CardInstance, n)
	// Reverse so drawn[0] is the card that was topmost.
	for i, c := range d.Cards[cut:] {
		drawn[n-1-i] = c
	}
	d.Cards = d.Cards[:cut]
	return drawn
}

// PutBack returns cards to the top of the deck. The first card of the slice
// ends up topmost, undoing a Draw of the same slice.
func (d *Deck) PutBack(cards []*CardInstance) {
	for i := len(cards) - 1; i >= 0; i-- {
		d.Cards = append(d.Cards, cards[i])
	}
}

// Size returns the number of cards left in the deck.
func (d *Deck) Size() int { return len(d.Cards) }
