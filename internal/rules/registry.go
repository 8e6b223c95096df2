package rules

// Defaults returns the full rule set in evaluation order. The orchestrator
// re-sorts by priority anyway; keeping the literal ordered makes the
// waterfall readable in one place.
func Defaults() []Rule {
	return []Rule{
		PlanFollowUp{},
		LifeEvent{},
		AgingIntention{},
		MissingReflection{},
		CriticalDrift{},
		AttentionDrift{},
		Momentum{},
		Maintenance{},
		Thriving{},
		ReciprocityOver{},
		ReciprocityUnder{},
		Novelty{},
		Insight{},
		Seasonal{},
	}
}
