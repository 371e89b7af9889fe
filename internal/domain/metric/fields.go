package metric

// Identifying keys as spelled by the analytics service.
const (
	KeyID           = "id"
	KeyPlayerID     = "player_id"
	KeyTeamID       = "team_id"
	KeyTeam         = "team"
	KeyTeamName     = "team_name"
	KeyPlayerName   = "player_name"
	KeyWebName      = "web_name"
	KeyName         = "name"
	KeyTeamShort    = "team_short"
	KeyShortName    = "short_name"
	KeyTeamCode     = "team_code"
	KeyPosition     = "position"
	KeyPositionName = "position_name"
)

// Numeric fields shared by several datasets.
const (
	FieldRank             = "rank"
	FieldAttackRank       = "attack_rank"
	FieldDefenseRank      = "defense_rank"
	FieldAttackStrength   = "attack_strength"
	FieldDefenseStrength  = "defense_strength"
	FieldGoals            = "goals"
	FieldCleanSheets      = "clean_sheets"
	FieldPointsPerGame    = "points_per_game"
	FieldForm             = "form"
	FieldOwnership        = "selected_by_percent"
	FieldPrice            = "now_cost"
	FieldTotalPoints      = "total_points"
	FieldAttackerScore    = "attacker_score"
	FieldDefenderScore    = "defender_score"
	FieldCleanSheetRate   = "cs_rate"
	FieldNearTermRating   = "near_term_rating"
	FieldMediumTermRating = "medium_term_rating"
	FieldFixtureSwing     = "fixture_swing"
	FieldAvgAttackDiff    = "avg_attack_difficulty"
	FieldAvgDefenseDiff   = "avg_defense_difficulty"
	FieldOpportunityScore = "opportunity_score"
)

// Derived fields written by ScaleToMax.
const (
	FieldAttackShare  = "attack_share"
	FieldDefenseShare = "defense_share"
)

// IsAttacker reports whether a position category is scored on attacking
// output (midfielders and forwards).
func IsAttacker(category string) bool {
	switch category {
	case "Midfielder", "Forward", "MID", "FWD", "midfielder", "forward":
		return true
	default:
		return false
	}
}
