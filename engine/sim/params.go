package sim

// Params is the simulation engine's configuration record (spec §6). There
// is no config-file framework here, matching the teacher's DefaultXConfig()
// idiom: callers start from DefaultParams() and override fields directly.
type Params struct {
	DefaultNumSlotsPerChannelDirection int
	DustLimit                          int64

	HonestPaymentsPerSecond     float64
	MinProcessingDelay          float64
	ExpectedExtraProcessingDelay float64

	JamDelay float64

	MaxRoutesHonest               int
	MaxAttemptsPerRouteHonest     int
	MaxAttemptsPerRouteJamming    int
	MaxTargetPairsPerRoute        int

	Duration float64

	// NoBalanceFailures, when true, disables the per-hop random rejection
	// of otherwise-successful honest payments. Jamming attempts never
	// consult this flag — their desired_result is always false, so the
	// balance-failure check (which only applies to desired_result == true
	// forwards) never triggers for them regardless of this setting.
	NoBalanceFailures bool
	// BalanceFailureProbability is the per-hop rejection probability used
	// when NoBalanceFailures is false. Not named as a parameter in spec §6
	// (which only gestures at "a configurable probability") — added here
	// and documented as an open-question resolution in DESIGN.md.
	BalanceFailureProbability float64

	UpfrontBaseCoeff float64
	UpfrontRateCoeff float64
}

// DefaultParams returns the parameter defaults named explicitly in spec §6,
// plus documented resolutions for the two values spec §6 left open
// (MaxRoutesHonest, BalanceFailureProbability).
func DefaultParams() Params {
	return Params{
		DefaultNumSlotsPerChannelDirection: 483,
		DustLimit:                          354,

		HonestPaymentsPerSecond:      1,
		MinProcessingDelay:           1,
		ExpectedExtraProcessingDelay: 1,

		JamDelay: 7,

		MaxRoutesHonest:            10,
		MaxAttemptsPerRouteHonest:  3,
		MaxAttemptsPerRouteJamming: 10,
		MaxTargetPairsPerRoute:     4,

		Duration: 3600,

		NoBalanceFailures:         true,
		BalanceFailureProbability: 0,

		UpfrontBaseCoeff: 0,
		UpfrontRateCoeff: 0,
	}
}
