package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceday/internal/scorer"
)

func newTestNormalizer() *Normalizer {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewNormalizer(log)
}

func horseRecord(raceNumber any, name string, extra map[string]any) scorer.Result {
	horse := map[string]any{
		fieldRaceNumber: raceNumber,
		fieldHorseName:  name,
	}
	for k, v := range extra {
		horse[k] = v
	}
	return scorer.Result{Horse: horse}
}

// TestCoerceInt tests integer coercion of analyzer values
func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected *int
	}{
		{name: "json number", input: float64(7), expected: intPtr(7)},
		{name: "plain int", input: 4, expected: intPtr(4)},
		{name: "numeric string", input: "12", expected: intPtr(12)},
		{name: "padded string", input: " 3 ", expected: intPtr(3)},
		{name: "empty string", input: "", expected: nil},
		{name: "garbage string", input: "abc", expected: nil},
		{name: "nil", input: nil, expected: nil},
		{name: "bool", input: true, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceInt(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.expected, *got)
			}
		})
	}
}

// TestCoerceDecimal tests weight coercion of analyzer values
func TestCoerceDecimal(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "json number", input: 56.5, expected: "56.5"},
		{name: "plain int", input: 54, expected: "54"},
		{name: "numeric string", input: "57.5", expected: "57.5"},
		{name: "empty string", input: "", expected: ""},
		{name: "garbage string", input: "heavy", expected: ""},
		{name: "nil", input: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceDecimal(tt.input)
			if tt.expected == "" {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				expected, err := decimal.NewFromString(tt.expected)
				require.NoError(t, err)
				assert.True(t, got.Equal(expected), "expected %s, got %s", expected, got)
			}
		})
	}
}

// TestCoerceString tests string rendering of analyzer values
func TestCoerceString(t *testing.T) {
	assert.Equal(t, "", coerceString(nil))
	assert.Equal(t, "Good 4", coerceString("Good 4"))
	assert.Equal(t, "1200", coerceString(float64(1200)))
	assert.Equal(t, "true", coerceString(true))
}

// TestCoercionIsIdempotent applies each coercion twice and expects the same
// result; coercion must be a pure projection of the input value.
func TestCoercionIsIdempotent(t *testing.T) {
	inputs := []any{float64(8), "8", " 8 ", "garbage", "", nil, 56.5}

	for _, in := range inputs {
		first := coerceInt(in)
		second := coerceInt(in)
		if first == nil {
			assert.Nil(t, second)
		} else {
			require.NotNil(t, second)
			assert.Equal(t, *first, *second)
		}
		assert.Equal(t, coerceString(in), coerceString(in))
	}
}

// TestNormalizeGroupsByRaceNumber tests the core grouping behavior
func TestNormalizeGroupsByRaceNumber(t *testing.T) {
	n := newTestNormalizer()
	meetingID := uuid.New()

	results := []scorer.Result{
		horseRecord(float64(1), "Alpha", map[string]any{fieldDistance: "1200m", fieldClass: "Maiden"}),
		horseRecord(float64(2), "Bravo", map[string]any{fieldDistance: "1400m"}),
		horseRecord(float64(1), "Charlie", nil),
		horseRecord(float64(2), "Delta", nil),
	}

	races := n.NormalizeResults(meetingID, results)
	require.Len(t, races, 2)

	assert.Equal(t, 1, races[0].Race.RaceNumber)
	assert.Equal(t, 2, races[1].Race.RaceNumber)

	require.Len(t, races[0].Horses, 2)
	assert.Equal(t, "Alpha", races[0].Horses[0].Horse.HorseName)
	assert.Equal(t, "Charlie", races[0].Horses[1].Horse.HorseName)

	require.Len(t, races[1].Horses, 2)
	assert.Equal(t, "Bravo", races[1].Horses[0].Horse.HorseName)
	assert.Equal(t, "Delta", races[1].Horses[1].Horse.HorseName)

	// every input record lands in exactly one race
	total := 0
	for _, race := range races {
		total += len(race.Horses)
		for _, horse := range race.Horses {
			assert.Equal(t, race.Race.ID, horse.Horse.RaceID)
			assert.Equal(t, meetingID, race.Race.MeetingID)
		}
	}
	assert.Equal(t, len(results), total)
}

// TestNormalizeFirstRecordSuppliesRaceFields tests that race-level fields
// come from the first record of each bucket and later records never override.
func TestNormalizeFirstRecordSuppliesRaceFields(t *testing.T) {
	n := newTestNormalizer()

	results := []scorer.Result{
		horseRecord(float64(5), "First", map[string]any{
			fieldDistance:       "1600m",
			fieldClass:          "Group 1",
			fieldTrackCondition: "Good 4",
		}),
		horseRecord(float64(5), "Second", map[string]any{
			fieldDistance:       "9999m",
			fieldClass:          "Other",
			fieldTrackCondition: "Heavy 10",
		}),
	}

	races := n.NormalizeResults(uuid.New(), results)
	require.Len(t, races, 1)

	race := races[0].Race
	assert.Equal(t, "1600m", race.Distance)
	assert.Equal(t, "Group 1", race.RaceClass)
	assert.Equal(t, "Good 4", race.TrackCondition)
}

// TestNormalizeMissingRaceNumber tests that records without a usable race
// number collect in race 0 instead of being dropped.
func TestNormalizeMissingRaceNumber(t *testing.T) {
	n := newTestNormalizer()

	results := []scorer.Result{
		horseRecord(nil, "NoNumber", nil),
		horseRecord("junk", "BadNumber", nil),
		horseRecord(float64(3), "Fine", nil),
	}

	races := n.NormalizeResults(uuid.New(), results)
	require.Len(t, races, 2)

	assert.Equal(t, 0, races[0].Race.RaceNumber)
	require.Len(t, races[0].Horses, 2)
	assert.Equal(t, "NoNumber", races[0].Horses[0].Horse.HorseName)
	assert.Equal(t, "BadNumber", races[0].Horses[1].Horse.HorseName)

	assert.Equal(t, 3, races[1].Race.RaceNumber)
}

// TestNormalizeHorseFields tests defensive coercion of per-horse fields
func TestNormalizeHorseFields(t *testing.T) {
	n := newTestNormalizer()

	result := scorer.Result{
		Horse: map[string]any{
			fieldRaceNumber: float64(1),
			fieldHorseName:  "Coerced",
			fieldBarrier:    "7",
			fieldWeight:     float64(56.5),
			fieldJockey:     "J Smith",
			fieldTrainer:    "T Jones",
			fieldForm:       "x1124",
		},
		Score:    scorer.LooseFloat(82.4),
		TrueOdds: scorer.LooseString("$3.40"),
		Notes:    scorer.LooseString("strong late"),
	}

	races := n.NormalizeResults(uuid.New(), []scorer.Result{result})
	require.Len(t, races, 1)
	require.Len(t, races[0].Horses, 1)

	horse := races[0].Horses[0].Horse
	assert.Equal(t, "Coerced", horse.HorseName)
	require.NotNil(t, horse.Barrier)
	assert.Equal(t, 7, *horse.Barrier)
	require.NotNil(t, horse.Weight)
	assert.True(t, horse.Weight.Equal(decimal.NewFromFloat(56.5)))
	assert.Equal(t, "J Smith", horse.Jockey)
	assert.Equal(t, "x1124", horse.Form)
	assert.NotEmpty(t, horse.CSVData)

	prediction := races[0].Horses[0].Prediction
	assert.Equal(t, horse.ID, prediction.HorseID)
	assert.InDelta(t, 82.4, prediction.Score, 0.0001)
	assert.Equal(t, "$3.40", prediction.PredictedOdds)
	assert.Equal(t, "strong late", prediction.Notes)
}

// TestNormalizeGarbageFieldsNeverPanic feeds hostile field values and expects
// nil pointers and empty strings, never a panic or an error path.
func TestNormalizeGarbageFieldsNeverPanic(t *testing.T) {
	n := newTestNormalizer()

	result := scorer.Result{
		Horse: map[string]any{
			fieldRaceNumber: []any{"nested"},
			fieldHorseName:  nil,
			fieldBarrier:    map[string]any{"odd": true},
			fieldWeight:     "not-a-number",
			fieldJockey:     float64(42),
		},
	}

	races := n.NormalizeResults(uuid.New(), []scorer.Result{result})
	require.Len(t, races, 1)

	horse := races[0].Horses[0].Horse
	assert.Equal(t, "", horse.HorseName)
	assert.Nil(t, horse.Barrier)
	assert.Nil(t, horse.Weight)
	assert.Equal(t, "42", horse.Jockey)
	assert.Equal(t, float64(0), races[0].Horses[0].Prediction.Score)
}

// TestNormalizePositionsFollowInputOrder tests that storage positions record
// the analyzer's emission order within each race.
func TestNormalizePositionsFollowInputOrder(t *testing.T) {
	n := newTestNormalizer()

	results := []scorer.Result{
		horseRecord(float64(1), "A", nil),
		horseRecord(float64(1), "B", nil),
		horseRecord(float64(1), "C", nil),
	}

	races := n.NormalizeResults(uuid.New(), results)
	require.Len(t, races, 1)
	require.Len(t, races[0].Horses, 3)

	for i, horse := range races[0].Horses {
		assert.Equal(t, i, horse.Horse.Position)
	}
}

// TestNormalizeEmptyResults tests the zero-record edge
func TestNormalizeEmptyResults(t *testing.T) {
	n := newTestNormalizer()
	races := n.NormalizeResults(uuid.New(), nil)
	assert.Empty(t, races)
}

func intPtr(n int) *int {
	return &n
}
