package flow

// Cumulative foreign net thresholds for score adjustment and tier labels
// (IDR). Asymmetric on purpose: sustained selling is punished earlier than
// buying is rewarded.
const (
	scoreUltraBuy  = 200_000_000_000
	scoreStrongBuy = 50_000_000_000
	scoreAccumBuy  = 5_000_000_000
	scoreHeavySell = -150_000_000_000
	scoreSell      = -30_000_000_000

	tierUltra        = 200_000_000_000
	tierStrong       = 50_000_000_000
	tierAccum        = 5_000_000_000
	tierHeavyDistrib = -100_000_000_000
	tierDistrib      = -20_000_000_000
)

// Score maps a symbol's cumulative foreign net into score points and a short
// conviction label for the scan table.
func Score(net float64) (float64, string) {
	switch {
	case net >= scoreUltraBuy:
		return 12, "ULTRA"
	case net >= scoreStrongBuy:
		return 8, "STRONG"
	case net >= scoreAccumBuy:
		return 3, "ACCUM"
	case net <= scoreHeavySell:
		return -12, "HEAVY SELL"
	case net <= scoreSell:
		return -6, "SELL"
	default:
		return 0, "NEUTRAL"
	}
}

// AccumTier labels cumulative foreign net for reporting. Coarser than Score:
// it answers "whose side is the smart money on", not "how many points".
func AccumTier(net float64) string {
	switch {
	case net >= tierUltra:
		return "ULTRA ACCUM"
	case net >= tierStrong:
		return "STRONG ACCUM"
	case net >= tierAccum:
		return "ACCUM"
	case net <= tierHeavyDistrib:
		return "HEAVY DISTRIB"
	case net <= tierDistrib:
		return "DISTRIB"
	default:
		return "NEUTRAL"
	}
}
