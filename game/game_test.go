package game

// scriptRNG returns a fixed sequence of Intn results and leaves shuffles
// untouched, so decks deal in construction order.
type scriptRNG struct {
	rolls []int
}

func (s *scriptRNG) Intn(n int) int {
	if len(s.rolls) == 0 {
		return 0
	}
	r := s.rolls[0]
	s.rolls = s.rolls[1:]
	return r % n
}

func (s *scriptRNG) Shuffle(n int, swap func(i, j int)) {}
