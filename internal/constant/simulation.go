package constant

const (
	// MinutesPerDay is the fixed simulation horizon: one sample per minute-of-day.
	MinutesPerDay = 24 * 60

	// LastMinute is the highest valid minute index.
	LastMinute = MinutesPerDay - 1

	MarketKind     = "market"
	MarketNodeID   = "market"
	DefaultSeedPct = 0.5
)

const (
	DrainSourceDeclared    = "declared"
	DrainSourceSynthesized = "synthesized"

	CandidateKindDeclared = "declared"
	CandidateKindDetected = "detected"
)

const (
	DatasetOriginDemo     = "demo"
	DatasetOriginUpload   = "upload"
	DatasetOriginUpstream = "upstream"
)

const (
	ThresholdPolicyCapacity = "capacity"
	ThresholdPolicyFixed    = "fixed"

	MatchModeLoose  = "loose"
	MatchModeStrict = "strict"

	SynthStrategyNone   = "none"
	SynthStrategyHashed = "hashed"
	SynthStrategySeeded = "seeded"
	SynthStrategyFixed  = "fixed"
)

// LastMinuteString is LastMinute for use in validation tags.
const LastMinuteString = "1439"
