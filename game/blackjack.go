package game

// HandValue totals a blackjack hand: 2-10 at face value, J/Q/K at 10, aces at
// 11 reduced to 1 one at a time while the hand would otherwise bust.
func HandValue(cards []Card) int {
	total := 0
	aces := 0
	for _, c := range cards {
		v := blackjackValue(c.Rank)
		total += v
		if c.Rank == Ace {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsSoft reports whether the hand contains an ace still counted as 11.
func IsSoft(cards []Card) bool {
	hasAce := false
	min := 0
	for _, c := range cards {
		if c.Rank == Ace {
			hasAce = true
			min++
		} else {
			min += blackjackValue(c.Rank)
		}
	}
	return hasAce && min+10 <= 21
}

// IsNatural reports a two-card 21.
func IsNatural(cards []Card) bool {
	return len(cards) == 2 && HandValue(cards) == 21
}

// DealerPlay draws for the dealer until the standing rule is met: stand on 17
// or better, except that a soft 17 is hit when hitSoft17 is set. Returns the
// completed dealer hand.
func DealerPlay(deck *Deck, hand []Card, hitSoft17 bool) []Card {
	for {
		v := HandValue(hand)
		if v < 17 {
			hand = append(hand, deck.Draw())
			continue
		}
		if v == 17 && hitSoft17 && IsSoft(hand) {
			hand = append(hand, deck.Draw())
			continue
		}
		return hand
	}
}

func blackjackValue(r Rank) int {
	switch {
	case r == Ace:
		return 11
	case r >= Jack:
		return 10
	default:
		return int(r)
	}
}
