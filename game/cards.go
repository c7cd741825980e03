package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// RNG is the randomness capability every game engine consumes. Both *rand.Rand
// and the scripted generators used in tests satisfy it.
type RNG interface {
	// Intn returns a uniform int in [0, n)
	Intn(n int) int

	// Shuffle randomizes the order of n elements via the swap function
	Shuffle(n int, swap func(i, j int))
}

// NewRNG returns a time-seeded RNG for production use. Safe for concurrent
// callers; *rand.Rand itself is not.
func NewRNG() RNG {
	return &lockedRNG{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

type lockedRNG struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRNG) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRNG) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

// Suit of a playing card. Order is irrelevant to hand ranking.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	}
	return "?"
}

// Rank of a playing card, 2 through 14 with ace high. Ace-low handling
// (blackjack soft totals, wheel straights) is done by the consumers.
type Rank int

const (
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case King:
		return "K"
	case Queen:
		return "Q"
	case Jack:
		return "J"
	}
	return fmt.Sprintf("%d", int(r))
}

// Card is a rank/suit pair.
type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Deck is a shuffled sequence of all 52 cards. Cards only ever leave via Draw;
// a deck is never reused across sessions.
type Deck struct {
	cards []Card
}

// NewDeck builds a full 52-card deck shuffled by rng.
func NewDeck(rng RNG) *Deck {
	cards := make([]Card, 0, 52)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Rank(2); rank <= Ace; rank++ {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{cards: cards}
}

// DeckFrom builds a deck that deals the given cards in order. Used by tests to
// stack known hands.
func DeckFrom(cards ...Card) *Deck {
	// Draw pops from the end, so reverse to preserve deal order.
	reversed := make([]Card, len(cards))
	for i, c := range cards {
		reversed[len(cards)-1-i] = c
	}
	return &Deck{cards: reversed}
}

// Clone copies the deck. Sessions settle against a clone so a failed
// settlement leaves the live deck untouched.
func (d *Deck) Clone() *Deck {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	return &Deck{cards: cards}
}

// Draw removes and returns the top card. Panics on an empty deck; a 52-card
// deck cannot be exhausted by any single blackjack or heads-up hand.
func (d *Deck) Draw() Card {
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c
}

// Remaining reports how many cards are left.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
