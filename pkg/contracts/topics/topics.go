package topics

const (
	// Palpites
	PredictionSubmitted = "predictions_submitted"

	// Boosters
	BoosterConsumed = "boosters_consumed"

	// DLQs
	BoosterConsumedDLQ = "boosters_consumed_dlq"
)
