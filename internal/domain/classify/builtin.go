package classify

import (
	"sync"

	"github.com/okian/fplboard/internal/domain/metric"
)

// Built-in rule set ids.
const (
	FixtureDifficulty  ID = "fixture_difficulty"
	RankTier           ID = "rank_tier"
	OpportunityScore   ID = "opportunity_score"
	SummaryScore       ID = "summary_score"
	FixtureRating      ID = "fixture_rating"
	DifficultyLevel    ID = "difficulty_level"
	PickDifficulty     ID = "pick_difficulty"
	OwnershipBand      ID = "ownership_band"
	SquadOwnershipBand ID = "ownership_band_squad"
	FormBadge          ID = "form_badge"
	Favourability      ID = "favourability"
	QuickPick          ID = "quick_pick"
	SquadPick          ID = "squad_pick"
	DefensivePick      ID = "defensive_pick"
)

// FavourMargin is the combined-rank gap needed before a side is called the
// favourite.
const FavourMargin = 3

// Labels reused across tables.
const (
	LabelTopPick      = "Top Pick"
	LabelSolidChoice  = "Solid Choice"
	LabelDifferential = "Differential"
	LabelMonitor      = "Monitor"
	LabelRisky        = "Risky"
	LabelUnrated      = "Unrated"
	LabelFavoured     = "Favoured"
	LabelUnderdog     = "Underdog"
)

var (
	builtinOnce sync.Once
	builtin     *Registry
)

// Builtin returns the shared registry of built-in rule sets.
func Builtin() *Registry {
	builtinOnce.Do(func() {
		builtin = NewRegistry(builtinSets()...)
	})
	return builtin
}

func builtinSets() []RuleSet {
	return []RuleSet{
		AtMost(FixtureDifficulty, []Band{
			{3.5, "Very Easy", "green-strong"},
			{4.5, "Easy", "green"},
			{5.3, "Moderate-Easy", "yellow"},
			{6.2, "Moderate-Hard", "orange"},
			{7.0, "Hard", "red"},
		}, Result{"Very Hard", "red-strong"}),

		AtMost(RankTier, []Band{
			{3, "Top 3", "purple"},
			{6, "Top 6", "blue"},
			{10, "Top 10", "indigo"},
			{15, "Top 15", "slate"},
		}, Result{"Outside Top 15", "gray"}),

		AtLeast(OpportunityScore, []Band{
			{3, "Excellent", "purple"},
			{1, "Good", "blue"},
			{-1, "Neutral", "slate"},
		}, Result{"Poor", "gray"}),

		AtLeast(SummaryScore, []Band{
			{1, "Favourable", "green"},
			{-1, "Mixed", "yellow"},
		}, Result{"Unfavourable", "red"}),

		AtLeast(FixtureRating, []Band{
			{80, "Excellent", "green"},
			{65, "Good", "lime"},
			{45, "Neutral", "yellow"},
			{25, "Difficult", "orange"},
		}, Result{"Very Difficult", "red"}),

		Exact(DifficultyLevel, map[string]Result{
			"VERY EASY":   {"Very Easy", "green-strong"},
			"EASY":        {"Easy", "green"},
			"MEDIUM-EASY": {"Medium-Easy", "yellow"},
		}, Result{LabelUnrated, "gray"}),

		Exact(PickDifficulty, map[string]Result{
			"easy":     {"Easy", "green"},
			"moderate": {"Moderate", "yellow"},
			"hard":     {"Hard", "red"},
		}, Result{LabelUnrated, "gray"}),

		Below(OwnershipBand, []Band{
			{10, LabelDifferential, "purple"},
			{20, "Low Owned", "blue"},
			{30, "Popular", "amber"},
		}, Result{"Template", "red"}),

		Below(SquadOwnershipBand, []Band{
			{10, LabelDifferential, "purple"},
			{30, "Low Owned", "blue"},
			{60, "Moderate", "slate"},
			{80, "Popular", "amber"},
		}, Result{"Template", "red"}),

		AtLeast(FormBadge, []Band{
			{7, "Hot", "emerald"},
			{5, "Steady", "amber"},
		}, Result{"Cold", "red"}),

		Pairwise(Favourability, FavourMargin,
			Result{LabelFavoured, "green"},
			Result{"Neutral", "gray"},
			Result{LabelUnderdog, "red"},
		),

		Composite(QuickPick,
			When(both(ppgIn(5, inf), formIn(6, inf)), LabelTopPick, "emerald"),
			When(both(ppgIn(3.5, 5), formIn(4.5, 6)), LabelSolidChoice, "blue"),
			When(both(ppgIn(2.5, 3.5), formIn(3.5, 4.5)), LabelDifferential, "purple"),
			When(both(ppgIn(-inf, 2.5), formIn(-inf, 3.5)), LabelRisky, "red"),
			Otherwise(LabelMonitor, "amber"),
		),

		Composite(SquadPick,
			When(either(roleScoreAtLeast(2.2, 3.0), both(ppgIn(6, inf), formIn(5, inf))), LabelTopPick, "emerald"),
			When(both(roleScoreAtLeast(1.6, 2.3), ownershipBelow(15)), LabelDifferential, "purple"),
			When(roleScoreAtLeast(1.5, 2.0), LabelSolidChoice, "blue"),
			When(roleScoreAtLeast(1.0, 1.5), LabelMonitor, "amber"),
			Otherwise(LabelRisky, "red"),
		),

		Composite(DefensivePick,
			When(func(s Subject) bool { return s.Record.Value(metric.FieldCleanSheetRate) >= 0.6 }, "Premium Pick", "emerald"),
			When(ownershipBelow(15), LabelDifferential, "purple"),
			Otherwise("Solid Option", "blue"),
		),
	}
}
