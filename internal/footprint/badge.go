package footprint

// Tier 徽章等级
type Tier string

const (
	TierNone   Tier = "none"
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

// Badge 由连续天数推导出的徽章
type Badge struct {
	Tier  Tier
	Label string
}

var badgeLadder = []struct {
	minStreak int
	badge     Badge
}{
	{30, Badge{Tier: TierGold, Label: "🥇 Gold Planet Protector"}},
	{14, Badge{Tier: TierSilver, Label: "🥈 Silver Eco Hero"}},
	{7, Badge{Tier: TierBronze, Label: "🥉 Bronze Eco Saver"}},
}

// ResolveBadge 从高到低匹配，第一个满足的等级生效。
func ResolveBadge(streak int) Badge {
	for _, step := range badgeLadder {
		if streak >= step.minStreak {
			return step.badge
		}
	}
	return Badge{Tier: TierNone, Label: "None"}
}
