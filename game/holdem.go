package game

// Betting stages of a heads-up hand. Community cards are revealed per stage:
// none preflop, three on the flop, four on the turn, all five from the river on.
type Stage int

const (
	Preflop Stage = iota
	Flop
	Turn
	River
	Showdown
)

func (s Stage) String() string {
	switch s {
	case Preflop:
		return "Preflop"
	case Flop:
		return "Flop"
	case Turn:
		return "Turn"
	case River:
		return "River"
	}
	return "Showdown"
}

// CommunityForStage returns the revealed prefix of the five pre-drawn
// community cards.
func CommunityForStage(board []Card, stage Stage) []Card {
	switch {
	case stage <= Preflop:
		return nil
	case stage == Flop:
		return board[:3]
	case stage == Turn:
		return board[:4]
	}
	return board[:5]
}

// OpponentAction is the scripted opponent's reply to the current table state.
type OpponentAction int

const (
	OpponentCheck OpponentAction = iota
	OpponentCall
	OpponentRaise
	OpponentFold
)

// OpponentPolicy holds the tunable probabilities driving the scripted
// opponent. All percentages are 0-100.
type OpponentPolicy struct {
	// CallMaxPctOfPot: calls are routine while the owed amount stays at or
	// below this share of the pot after calling.
	CallMaxPctOfPot int
	// RaiseChancePct: chance of an unprompted raise when nothing is owed.
	RaiseChancePct int
	// RaisePctOfPot sizes raises as a share of the current pot.
	RaisePctOfPot int
	// RaiseInsteadOfCallPct: chance to raise when a call would be routine.
	RaiseInsteadOfCallPct int
	// CallDespiteOddsPct: chance to still call when the owed amount is over
	// the routine threshold; otherwise the opponent folds.
	CallDespiteOddsPct int
}

// Decide picks the opponent's action given the pot and what it owes.
func (p OpponentPolicy) Decide(rng RNG, pot, toCall int64) OpponentAction {
	if toCall <= 0 {
		if rng.Intn(100) < p.RaiseChancePct {
			return OpponentRaise
		}
		return OpponentCheck
	}

	potIfCall := pot + toCall
	pct := 100
	if potIfCall > 0 {
		pct = int(toCall * 100 / potIfCall)
	}
	if pct <= p.CallMaxPctOfPot {
		if rng.Intn(100) < p.RaiseInsteadOfCallPct {
			return OpponentRaise
		}
		return OpponentCall
	}
	if rng.Intn(100) < p.CallDespiteOddsPct {
		return OpponentCall
	}
	return OpponentFold
}

// RaiseAmount sizes an opponent raise: a share of the pot, at least the ante,
// never above maxBet.
func (p OpponentPolicy) RaiseAmount(pot, ante, maxBet int64) int64 {
	basePot := pot
	if basePot < 1 {
		basePot = 1
	}
	amt := basePot * int64(p.RaisePctOfPot) / 100
	if amt < ante {
		amt = ante
	}
	if amt > maxBet {
		amt = maxBet
	}
	return amt
}
