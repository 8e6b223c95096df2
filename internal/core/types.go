// Package core defines the fundamental types for Kinship.
// These types are shared by every other package in the system.
package core

import (
	"time"
)

// -----------------------------------------------------------------------------
// RELATIONSHIP - A person you want to stay close to
// -----------------------------------------------------------------------------

// Tier is the closeness band of a relationship. It bounds capacity and
// controls how fast the vitality score cools between interactions.
type Tier string

const (
	TierInner     Tier = "inner"     // Closest people, highest expectations
	TierClose     Tier = "close"     // Good friends, regular contact
	TierCommunity Tier = "community" // Wider circle, occasional contact
)

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierInner, TierClose, TierCommunity:
		return true
	}
	return false
}

// Archetype is a connection-style label. Each archetype carries per-category
// affinity multipliers: time spent the way a person likes to connect counts
// for more.
type Archetype string

const (
	ArchetypeDeepDiver  Archetype = "deep_diver" // One-on-one heart-to-hearts
	ArchetypeAdventurer Archetype = "adventurer" // Shared activities and hobbies
	ArchetypeHost       Archetype = "host"       // Gatherings and parties
	ArchetypeNurturer   Archetype = "nurturer"   // Favors, support, showing up
	ArchetypeFoodie     Archetype = "foodie"     // Meals and drinks together
	ArchetypeTexter     Archetype = "texter"     // Frequent lightweight contact
	ArchetypeCelebrator Archetype = "celebrator" // Milestones and celebrations
	ArchetypeListener   Archetype = "listener"   // Voice notes, long calls
	ArchetypeCompanion  Archetype = "companion"  // Low-key hanging out
)

// RelationshipType is an optional label for what kind of relationship this
// is. It carries its own category preference and gates a few rules
// (anniversaries only make sense for partners).
type RelationshipType string

const (
	RelTypePartner   RelationshipType = "partner"
	RelTypeFamily    RelationshipType = "family"
	RelTypeFriend    RelationshipType = "friend"
	RelTypeColleague RelationshipType = "colleague"
	RelTypeNeighbor  RelationshipType = "neighbor"
	RelTypeMentor    RelationshipType = "mentor"
)

// Relationship represents one person in your circles.
//
// VitalityScore is the STORED score: it is written when interactions are
// logged, edited, or removed, and clamped to [0,100] at every write. The
// current score shown to the user is derived on read by applying tier decay
// to the stored value; see the scoring package.
type Relationship struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Tier      Tier             `json:"tier"`
	Archetype Archetype        `json:"archetype,omitempty"`
	Type      RelationshipType `json:"type,omitempty"`

	VitalityScore     float64    `json:"vitality_score"`
	LastInteractionAt *time.Time `json:"last_interaction_at,omitempty"`

	// Legacy date fields, used as a fallback when no structured life
	// event exists for the relationship.
	Birthday    *time.Time `json:"birthday,omitempty"`
	Anniversary *time.Time `json:"anniversary,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// -----------------------------------------------------------------------------
// INTERACTION - A logged or planned moment of contact
// -----------------------------------------------------------------------------

// InteractionCategory is the fixed taxonomy of ways people connect.
type InteractionCategory string

const (
	CategoryTextCall      InteractionCategory = "text_call"
	CategoryMealDrink     InteractionCategory = "meal_drink"
	CategoryHangout       InteractionCategory = "hangout"
	CategoryDeepTalk      InteractionCategory = "deep_talk"
	CategoryActivityHobby InteractionCategory = "activity_hobby"
	CategoryEventParty    InteractionCategory = "event_party"
	CategoryFavorSupport  InteractionCategory = "favor_support"
	CategoryCelebration   InteractionCategory = "celebration"
	CategoryVoiceNote     InteractionCategory = "voice_note"
)

// AllCategories lists every interaction category in display order.
var AllCategories = []InteractionCategory{
	CategoryTextCall,
	CategoryMealDrink,
	CategoryHangout,
	CategoryDeepTalk,
	CategoryActivityHobby,
	CategoryEventParty,
	CategoryFavorSupport,
	CategoryCelebration,
	CategoryVoiceNote,
}

// InteractionStatus distinguishes logged history from future plans.
type InteractionStatus string

const (
	StatusCompleted InteractionStatus = "completed"
	StatusPlanned   InteractionStatus = "planned"
)

// Duration is a coarse bucket for how long an interaction lasted.
type Duration string

const (
	DurationQuick    Duration = "quick"
	DurationStandard Duration = "standard"
	DurationExtended Duration = "extended"
)

// Initiator records who made an interaction happen. Unknown is allowed;
// reciprocity rules only count interactions where it was recorded.
type Initiator string

const (
	InitiatorSelf    Initiator = "self"
	InitiatorThem    Initiator = "them"
	InitiatorUnknown Initiator = ""
)

// Interaction is one logged or planned moment of contact. A single
// interaction can involve several relationships; its score contribution is
// applied to each participant independently.
type Interaction struct {
	ID           string              `json:"id"`
	Participants []string            `json:"participants"` // relationship IDs
	Category     InteractionCategory `json:"category"`
	Status       InteractionStatus   `json:"status"`
	OccurredAt   time.Time           `json:"occurred_at"`

	Duration      Duration  `json:"duration,omitempty"` // empty = standard
	Vibe          int       `json:"vibe,omitempty"`     // 1-5, 0 = not rated
	HasReflection bool      `json:"has_reflection"`
	Initiator     Initiator `json:"initiator,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Completed reports whether the interaction actually happened.
func (i Interaction) Completed() bool { return i.Status == StatusCompleted }

// -----------------------------------------------------------------------------
// INTENTION - A declared intent to reconnect, not yet scheduled
// -----------------------------------------------------------------------------

// Intention is a user-declared "I want to reach out to X" that has not been
// turned into a plan yet. Aging intentions generate nudges.
type Intention struct {
	ID             string    `json:"id"`
	RelationshipID string    `json:"relationship_id"`
	Note           string    `json:"note,omitempty"`
	Active         bool      `json:"active"`
	Scheduled      bool      `json:"scheduled"` // true once a plan exists
	CreatedAt      time.Time `json:"created_at"`
}

// -----------------------------------------------------------------------------
// LIFE EVENT - Birthdays, anniversaries, and other dates that matter
// -----------------------------------------------------------------------------

// LifeEventKind categorizes a life event.
type LifeEventKind string

const (
	LifeEventBirthday    LifeEventKind = "birthday"
	LifeEventAnniversary LifeEventKind = "anniversary"
	LifeEventCustom      LifeEventKind = "custom"
)

// LifeEvent is a structured date attached to a relationship. Birthday and
// anniversary events recur annually; for recurring events only the month and
// day of Date matter.
type LifeEvent struct {
	ID             string        `json:"id"`
	RelationshipID string        `json:"relationship_id"`
	Kind           LifeEventKind `json:"kind"`
	Label          string        `json:"label,omitempty"`
	Date           time.Time     `json:"date"`
	Recurring      bool          `json:"recurring"`
	LeadDays       int           `json:"lead_days,omitempty"` // 0 = default lead window
	CreatedAt      time.Time     `json:"created_at"`
}

// -----------------------------------------------------------------------------
// PATTERN - Inferred contact cadence (derived, never persisted)
// -----------------------------------------------------------------------------

// Pattern describes the inferred rhythm of a relationship's contact.
type Pattern struct {
	AverageIntervalDays float64               `json:"average_interval_days"`
	Reliable            bool                  `json:"reliable"`
	PreferredCategories []InteractionCategory `json:"preferred_categories"`
}

// -----------------------------------------------------------------------------
// SUGGESTION - One actionable nudge per relationship
// -----------------------------------------------------------------------------

// SuggestionUrgency orders suggestions by how much they need attention.
type SuggestionUrgency string

const (
	UrgencyCritical SuggestionUrgency = "critical"
	UrgencyHigh     SuggestionUrgency = "high"
	UrgencyMedium   SuggestionUrgency = "medium"
	UrgencyLow      SuggestionUrgency = "low"
)

// SuggestionCategory is the suggestion taxonomy. It is distinct from the
// interaction taxonomy: a suggestion of category "drift" may recommend an
// interaction of any category.
type SuggestionCategory string

const (
	SuggestionPlan             SuggestionCategory = "plan"
	SuggestionLifeEvent        SuggestionCategory = "life_event"
	SuggestionIntention        SuggestionCategory = "intention"
	SuggestionReflection       SuggestionCategory = "reflection"
	SuggestionDrift            SuggestionCategory = "drift"
	SuggestionMomentum         SuggestionCategory = "momentum"
	SuggestionCheckin          SuggestionCategory = "checkin"
	SuggestionCommunityCheckin SuggestionCategory = "community_checkin"
	SuggestionDeepen           SuggestionCategory = "deepen"
	SuggestionReciprocity      SuggestionCategory = "reciprocity"
	SuggestionNovelty          SuggestionCategory = "novelty"
	SuggestionInsight          SuggestionCategory = "insight"
	SuggestionSeasonal         SuggestionCategory = "seasonal"
	SuggestionSystem           SuggestionCategory = "system"
)

// SuggestedAction is what the user should do about a suggestion.
type SuggestedAction string

const (
	ActionLog        SuggestedAction = "log"
	ActionPlan       SuggestedAction = "plan"
	ActionReflect    SuggestedAction = "reflect"
	ActionTierReview SuggestedAction = "tier_review"
)

// Suggestion is one actionable nudge. Suggestions are ephemeral: they are
// recomputed on every orchestration pass and never persisted as truth. Only
// dismissal timestamps survive, in the cooldown registry.
//
// IDs are deterministic ("{kind}-{relationshipID}" or
// "{kind}-{interactionID}"), so the same condition always produces the
// same ID and can be matched against recorded dismissals.
type Suggestion struct {
	ID             string             `json:"id"`
	RelationshipID string             `json:"relationship_id,omitempty"`
	Urgency        SuggestionUrgency  `json:"urgency"`
	Category       SuggestionCategory `json:"category"`
	Title          string             `json:"title"`
	Subtitle       string             `json:"subtitle,omitempty"`
	Action         SuggestedAction    `json:"action"`
	Dismissible    bool               `json:"dismissible"`
	CreatedAt      time.Time          `json:"created_at"`
	ExpiresAt      *time.Time         `json:"expires_at,omitempty"`
}
