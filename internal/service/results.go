package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/raceday/internal/models"
)

// MeetingResults is the display-ready nested structure for one meeting
type MeetingResults struct {
	MeetingName string        `json:"meeting_name"`
	UploadedAt  time.Time     `json:"uploaded_at"`
	Races       []RaceResults `json:"races"`
}

// RaceResults is one race with its horses ordered for display
type RaceResults struct {
	RaceNumber int           `json:"race_number"`
	Distance   string        `json:"distance"`
	Horses     []HorseResult `json:"horses"`
}

// HorseResult is one horse row for display. A horse without a stored
// prediction renders with score 0 and empty odds and notes.
type HorseResult struct {
	HorseName string  `json:"horse_name"`
	Barrier   *int    `json:"barrier"`
	Jockey    string  `json:"jockey"`
	Trainer   string  `json:"trainer"`
	Score     float64 `json:"score"`
	Odds      string  `json:"odds"`
	Notes     string  `json:"notes"`
}

// GetMeetingResults reconstructs a stored meeting into its display form:
// races ascending by race number, horses within each race by score
// descending. Returns models.ErrNotFound if the meeting does not exist.
func (s *AnalysisService) GetMeetingResults(ctx context.Context, meetingID uuid.UUID) (*MeetingResults, error) {
	meeting, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	races, err := s.raceRepo.GetByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	results := &MeetingResults{
		MeetingName: meeting.MeetingName,
		UploadedAt:  meeting.UploadedAt,
		Races:       make([]RaceResults, 0, len(races)),
	}

	for _, race := range races {
		horses, err := s.horseRepo.GetByRaceID(ctx, race.ID)
		if err != nil {
			return nil, err
		}

		raceResults := RaceResults{
			RaceNumber: race.RaceNumber,
			Distance:   race.Distance,
			Horses:     make([]HorseResult, 0, len(horses)),
		}

		for _, horse := range horses {
			row := HorseResult{
				HorseName: horse.HorseName,
				Barrier:   horse.Barrier,
				Jockey:    horse.Jockey,
				Trainer:   horse.Trainer,
			}

			prediction, err := s.predRepo.GetByHorseID(ctx, horse.ID)
			switch {
			case errors.Is(err, models.ErrNotFound):
				// defaults stand
			case err != nil:
				return nil, err
			default:
				row.Score = prediction.Score
				row.Odds = prediction.PredictedOdds
				row.Notes = prediction.Notes
			}

			raceResults.Horses = append(raceResults.Horses, row)
		}

		sortHorsesByScore(raceResults.Horses)
		results.Races = append(results.Races, raceResults)
	}

	return results, nil
}

// sortHorsesByScore orders horses by descending score. The sort is stable so
// tied scores keep their storage order.
func sortHorsesByScore(horses []HorseResult) {
	sort.SliceStable(horses, func(i, j int) bool {
		return horses[i].Score > horses[j].Score
	})
}
