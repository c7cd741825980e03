package game

// Symbol is one of the fixed reel faces.
type Symbol string

const (
	Cherry  Symbol = "🍒"
	Lemon   Symbol = "🍋"
	Grapes  Symbol = "🍇"
	Bell    Symbol = "🔔"
	Diamond Symbol = "💎"
	Crown   Symbol = "👑"
)

// reelWeights sum to 100; the skew toward low symbols carries the house edge.
var reelWeights = []struct {
	symbol Symbol
	weight int
}{
	{Cherry, 40},
	{Lemon, 30},
	{Grapes, 18},
	{Bell, 8},
	{Diamond, 3},
	{Crown, 1},
}

// slotsPayouts maps a triple of the symbol to its stake multiplier.
var slotsPayouts = map[Symbol]int64{
	Cherry:  2,
	Lemon:   3,
	Grapes:  5,
	Bell:    10,
	Diamond: 25,
	Crown:   100,
}

// JackpotSymbol is the top-paying face.
const JackpotSymbol = Crown

// SpinReels draws three independent weighted symbols.
func SpinReels(rng RNG) [3]Symbol {
	var reels [3]Symbol
	for i := range reels {
		reels[i] = drawSymbol(rng)
	}
	return reels
}

// SlotsPayout returns the total return for a spin: stake times the symbol
// multiplier when all three match, else zero.
func SlotsPayout(reels [3]Symbol, stake int64) int64 {
	if reels[0] != reels[1] || reels[1] != reels[2] {
		return 0
	}
	return stake * slotsPayouts[reels[0]]
}

func drawSymbol(rng RNG) Symbol {
	roll := rng.Intn(100)
	for _, w := range reelWeights {
		if roll < w.weight {
			return w.symbol
		}
		roll -= w.weight
	}
	// Unreachable: weights sum to 100.
	return Cherry
}
