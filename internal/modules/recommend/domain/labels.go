package domain

var advantageLabels = map[int]string{
	5: "⭐️⭐️⭐️⭐️⭐️ Excellent advantage opportunities",
	4: "⭐️⭐️⭐️⭐️ Strong potential for skilled players",
	3: "⭐️⭐️⭐️ Moderate advantage play value",
	2: "⭐️⭐️ Low advantage value",
	1: "⭐️ Minimal advantage potential",
}

var volatilityLabels = map[int]string{
	1: "📈 Very low volatility (frequent small wins)",
	2: "📈 Low volatility",
	3: "📊 Medium volatility",
	4: "📉 High volatility",
	5: "📉 Very high volatility (rare big wins)",
}

func AdvantageLabel(rating int) string {
	if l, ok := advantageLabels[rating]; ok {
		return l
	}
	return "Unknown"
}

func VolatilityLabel(rating int) string {
	if l, ok := volatilityLabels[rating]; ok {
		return l
	}
	return "Unknown"
}

func BonusLabel(freq float64) string {
	switch {
	case freq >= 0.4:
		return "🎁🎁🎁 Very frequent bonuses"
	case freq >= 0.3:
		return "🎁🎁 Frequent bonus features"
	case freq >= 0.2:
		return "🎁 Occasional bonuses"
	case freq >= 0.1:
		return "🎁 Rare bonuses"
	default:
		return "🎁 Very rare bonuses"
	}
}
