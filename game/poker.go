package game

import "sort"

// HandCategory orders poker hand classes from weakest to strongest.
type HandCategory int

const (
	HighCard HandCategory = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

func (c HandCategory) String() string {
	switch c {
	case HighCard:
		return "high card"
	case OnePair:
		return "one pair"
	case TwoPair:
		return "two pair"
	case ThreeOfAKind:
		return "three of a kind"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full house"
	case FourOfAKind:
		return "four of a kind"
	case StraightFlush:
		return "straight flush"
	}
	return "unknown"
}

// HandRank is a totally ordered ranking of a 5-card hand: category first, then
// tiebreak values compared lexicographically.
type HandRank struct {
	Category  HandCategory
	Tiebreaks []int
}

// Compare returns -1, 0 or 1 as h ranks below, equal to or above other.
func (h HandRank) Compare(other HandRank) int {
	if h.Category != other.Category {
		if h.Category < other.Category {
			return -1
		}
		return 1
	}
	for i := 0; i < len(h.Tiebreaks) && i < len(other.Tiebreaks); i++ {
		if h.Tiebreaks[i] != other.Tiebreaks[i] {
			if h.Tiebreaks[i] < other.Tiebreaks[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Evaluate5 ranks exactly five cards.
func Evaluate5(cards []Card) HandRank {
	vals := make([]int, len(cards))
	for i, c := range cards {
		vals[i] = int(c.Rank)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(vals)))

	counts := map[int]int{}
	for _, v := range vals {
		counts[v]++
	}
	type group struct{ val, n int }
	groups := make([]group, 0, len(counts))
	for v, n := range counts {
		groups = append(groups, group{v, n})
	}
	// Most frequent first, then highest value.
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].n != groups[j].n {
			return groups[i].n > groups[j].n
		}
		return groups[i].val > groups[j].val
	})

	flush := true
	for _, c := range cards {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}

	straightTop := straightTopCard(vals)
	straight := straightTop > 0

	switch {
	case straight && flush:
		return HandRank{StraightFlush, []int{straightTop}}
	case groups[0].n == 4:
		kicker := 0
		for _, v := range vals {
			if v != groups[0].val {
				kicker = v
				break
			}
		}
		return HandRank{FourOfAKind, []int{groups[0].val, kicker}}
	case groups[0].n == 3 && groups[1].n == 2:
		return HandRank{FullHouse, []int{groups[0].val, groups[1].val}}
	case flush:
		return HandRank{Flush, vals}
	case straight:
		return HandRank{Straight, []int{straightTop}}
	case groups[0].n == 3:
		tb := []int{groups[0].val}
		for _, v := range vals {
			if v != groups[0].val {
				tb = append(tb, v)
			}
		}
		return HandRank{ThreeOfAKind, tb}
	case groups[0].n == 2 && groups[1].n == 2:
		hi, lo := groups[0].val, groups[1].val
		if lo > hi {
			hi, lo = lo, hi
		}
		kicker := 0
		for _, v := range vals {
			if v != hi && v != lo {
				kicker = v
				break
			}
		}
		return HandRank{TwoPair, []int{hi, lo, kicker}}
	case groups[0].n == 2:
		tb := []int{groups[0].val}
		for _, v := range vals {
			if v != groups[0].val {
				tb = append(tb, v)
			}
		}
		return HandRank{OnePair, tb}
	}
	return HandRank{HighCard, vals}
}

// EvaluateBest ranks the best 5-card hand drawable from 5 to 7 cards.
func EvaluateBest(cards []Card) HandRank {
	if len(cards) == 5 {
		return Evaluate5(cards)
	}
	var best HandRank
	first := true
	pick := make([]Card, 5)
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						pick[0], pick[1], pick[2], pick[3], pick[4] =
							cards[a], cards[b], cards[c], cards[d], cards[e]
						r := Evaluate5(pick)
						if first || r.Compare(best) > 0 {
							best = r
							first = false
						}
					}
				}
			}
		}
	}
	return best
}

// straightTopCard returns the high card of a 5-card straight, 0 if the values
// do not form one. vals must be sorted descending. The ace-low wheel
// (A,2,3,4,5) counts as a straight topped by the 5.
func straightTopCard(vals []int) int {
	uniq := vals[:0:0]
	seen := map[int]bool{}
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			uniq = append(uniq, v)
		}
	}
	if len(uniq) != 5 {
		return 0
	}
	if uniq[0]-uniq[4] == 4 {
		return uniq[0]
	}
	if uniq[0] == int(Ace) && uniq[1] == 5 && uniq[1]-uniq[4] == 3 {
		return 5
	}
	return 0
}
