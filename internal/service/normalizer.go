// Package service implements the upload analysis pipeline: scoring,
// normalization and persistence of race-day meetings.
package service

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceday/internal/models"
	"github.com/yourusername/raceday/internal/scorer"
)

// Horse field map keys emitted by the analyzer.
const (
	fieldRaceNumber     = "race number"
	fieldDistance       = "distance"
	fieldClass          = "class"
	fieldTrackCondition = "track condition"
	fieldHorseName      = "horse name"
	fieldBarrier        = "barrier"
	fieldWeight         = "weight"
	fieldJockey         = "jockey"
	fieldTrainer        = "trainer"
	fieldForm           = "form"
)

// NormalizedHorse pairs a typed horse with its prediction, ready for persistence.
type NormalizedHorse struct {
	Horse      *models.Horse
	Prediction *models.Prediction
}

// NormalizedRace is one race bucket ready for persistence.
type NormalizedRace struct {
	Race   *models.Race
	Horses []NormalizedHorse
}

// Normalizer converts the analyzer's loosely typed output into typed race,
// horse and prediction entities.
type Normalizer struct {
	logger *logrus.Logger
}

// NewNormalizer creates a new normalizer
func NewNormalizer(logger *logrus.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// NormalizeResults groups flat analyzer records by race number and converts
// each bucket into a race with its horses and predictions. Buckets keep
// first-seen order, both across races and within a race. The first record in
// a bucket supplies the race-level fields (distance, class, track condition);
// later records in the same race never override them.
func (n *Normalizer) NormalizeResults(meetingID uuid.UUID, results []scorer.Result) []*NormalizedRace {
	var order []int
	buckets := make(map[int][]scorer.Result)

	for _, result := range results {
		raceNumber := 0
		if num := coerceInt(result.Horse[fieldRaceNumber]); num != nil {
			raceNumber = *num
		}
		if _, seen := buckets[raceNumber]; !seen {
			order = append(order, raceNumber)
		}
		buckets[raceNumber] = append(buckets[raceNumber], result)
	}

	races := make([]*NormalizedRace, 0, len(order))
	for _, raceNumber := range order {
		bucket := buckets[raceNumber]
		first := bucket[0].Horse

		race := &models.Race{
			ID:             uuid.New(),
			MeetingID:      meetingID,
			RaceNumber:     raceNumber,
			Distance:       coerceString(first[fieldDistance]),
			RaceClass:      coerceString(first[fieldClass]),
			TrackCondition: coerceString(first[fieldTrackCondition]),
		}

		normalized := &NormalizedRace{
			Race:   race,
			Horses: make([]NormalizedHorse, 0, len(bucket)),
		}
		for position, result := range bucket {
			normalized.Horses = append(normalized.Horses, n.normalizeHorse(race.ID, position, result))
		}
		races = append(races, normalized)
	}

	return races
}

// normalizeHorse converts one analyzer record into a horse and its prediction.
// The raw horse field map is preserved verbatim on the horse row for audit.
func (n *Normalizer) normalizeHorse(raceID uuid.UUID, position int, result scorer.Result) NormalizedHorse {
	raw, err := json.Marshal(result.Horse)
	if err != nil {
		n.logger.WithError(err).Warn("Failed to preserve raw horse fields")
		raw = nil
	}

	horse := &models.Horse{
		ID:        uuid.New(),
		RaceID:    raceID,
		Position:  position,
		HorseName: coerceString(result.Horse[fieldHorseName]),
		Barrier:   coerceInt(result.Horse[fieldBarrier]),
		Weight:    coerceDecimal(result.Horse[fieldWeight]),
		Jockey:    coerceString(result.Horse[fieldJockey]),
		Trainer:   coerceString(result.Horse[fieldTrainer]),
		Form:      coerceString(result.Horse[fieldForm]),
		CSVData:   raw,
	}

	prediction := &models.Prediction{
		ID:                   uuid.New(),
		HorseID:              horse.ID,
		Score:                float64(result.Score),
		PredictedOdds:        string(result.TrueOdds),
		WinProbability:       string(result.WinProbability),
		PerformanceComponent: string(result.PerformanceComponent),
		BaseProbability:      string(result.BaseProbability),
		Notes:                string(result.Notes),
	}

	return NormalizedHorse{Horse: horse, Prediction: prediction}
}
