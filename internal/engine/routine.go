package engine

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/jengzang/places-backend-go/internal/models"
)

// RoutineAnalyzer aggregates visit history into recurring
// (place, day-of-week, hour-bucket) patterns and scores how far current
// behavior deviates from them.
type RoutineAnalyzer struct {
	visits VisitStore
	places PlaceStore
	cfg    Config
	loc    *time.Location
	now    func() time.Time
}

// NewRoutineAnalyzer creates a routine analyzer. loc is the timezone used for
// day-of-week and hour bucketing; nil means the server's local timezone.
func NewRoutineAnalyzer(visits VisitStore, places PlaceStore, cfg Config, loc *time.Location) *RoutineAnalyzer {
	if loc == nil {
		loc = time.Local
	}
	return &RoutineAnalyzer{
		visits: visits,
		places: places,
		cfg:    cfg,
		loc:    loc,
		now:    time.Now,
	}
}

type slotKey struct {
	placeID string
	dow     int
	bucket  int
}

type slotStats struct {
	dates    map[string]struct{}
	visitIDs []string
}

// DetectRoutines extracts the owner's routines over the look-back window and
// retroactively marks the matching visits as routine.
func (a *RoutineAnalyzer) DetectRoutines(ctx context.Context, uid string, daysBack int) ([]models.RoutinePattern, error) {
	return a.detect(ctx, uid, daysBack, true)
}

func (a *RoutineAnalyzer) detect(ctx context.Context, uid string, daysBack int, mark bool) ([]models.RoutinePattern, error) {
	if daysBack < 1 {
		daysBack = a.cfg.RoutineWindowDays
	}
	end := a.now()
	start := end.AddDate(0, 0, -daysBack)

	visits, err := a.visits.VisitsBetween(ctx, uid, start, end)
	if err != nil {
		return nil, err
	}

	slots := make(map[slotKey]*slotStats)
	for _, v := range visits {
		if v.Open() {
			continue
		}
		local := time.Unix(v.EnteredAt, 0).In(a.loc)
		key := slotKey{
			placeID: v.PlaceID,
			dow:     int(local.Weekday()),
			bucket:  local.Hour() / a.cfg.RoutineBucketHours,
		}
		s, ok := slots[key]
		if !ok {
			s = &slotStats{dates: make(map[string]struct{})}
			slots[key] = s
		}
		s.dates[local.Format("2006-01-02")] = struct{}{}
		s.visitIDs = append(s.visitIDs, v.ID)
	}

	// A slot recurs weekly, so the occurrence ratio is measured against the
	// number of applicable weekdays in the window.
	weeks := daysBack / 7
	if weeks < 1 {
		weeks = 1
	}

	names := make(map[string]string)
	var patterns []models.RoutinePattern
	var routineVisitIDs []string
	for key, s := range slots {
		if len(s.dates) < a.cfg.RoutineMinOccurrences {
			continue
		}
		name, ok := names[key.placeID]
		if !ok {
			place, err := a.places.GetPlace(ctx, key.placeID)
			if err != nil {
				return nil, err
			}
			if place != nil {
				name = place.Name
			}
			names[key.placeID] = name
		}
		confidence := float64(len(s.dates)) / float64(weeks)
		if confidence > 1 {
			confidence = 1
		}
		patterns = append(patterns, models.RoutinePattern{
			PlaceID:     key.placeID,
			PlaceName:   name,
			DayOfWeek:   key.dow,
			HourBucket:  key.bucket,
			Occurrences: len(s.dates),
			Confidence:  confidence,
		})
		routineVisitIDs = append(routineVisitIDs, s.visitIDs...)
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].DayOfWeek != patterns[j].DayOfWeek {
			return patterns[i].DayOfWeek < patterns[j].DayOfWeek
		}
		if patterns[i].HourBucket != patterns[j].HourBucket {
			return patterns[i].HourBucket < patterns[j].HourBucket
		}
		return patterns[i].PlaceID < patterns[j].PlaceID
	})

	if mark && len(routineVisitIDs) > 0 {
		if err := a.visits.MarkRoutine(ctx, routineVisitIDs); err != nil {
			return nil, err
		}
		log.Printf("[RoutineAnalyzer] marked %d visits as routine for owner %s", len(routineVisitIDs), uid)
	}

	return patterns, nil
}

// ExpectedPlace returns the strongest routine for the time slot containing
// now, or nil when no routine is established for the slot.
func (a *RoutineAnalyzer) ExpectedPlace(ctx context.Context, uid string, now time.Time) (*models.RoutinePattern, error) {
	patterns, err := a.detect(ctx, uid, a.cfg.RoutineWindowDays, false)
	if err != nil {
		return nil, err
	}
	local := now.In(a.loc)
	dow := int(local.Weekday())
	bucket := local.Hour() / a.cfg.RoutineBucketHours

	var best *models.RoutinePattern
	for i := range patterns {
		p := &patterns[i]
		if p.DayOfWeek != dow || p.HourBucket != bucket {
			continue
		}
		if best == nil || p.Confidence > best.Confidence {
			best = p
		}
	}
	return best, nil
}

// CheckDeviation compares the owner's current place against the routine
// expected right now. It returns nil when no sufficiently strong routine
// exists for the slot: absence of evidence is not evidence of deviation.
func (a *RoutineAnalyzer) CheckDeviation(ctx context.Context, uid string) (*models.DeviationReport, error) {
	now := a.now()
	expected, err := a.ExpectedPlace(ctx, uid, now)
	if err != nil {
		return nil, err
	}
	if expected == nil || expected.Confidence < a.cfg.DeviationMinConfidence {
		return nil, nil
	}

	open, err := a.visits.OpenVisit(ctx, uid)
	if err != nil {
		return nil, err
	}
	if open != nil && open.PlaceID == expected.PlaceID {
		return nil, nil
	}

	report := &models.DeviationReport{
		IsDeviation:       true,
		ExpectedPlaceID:   expected.PlaceID,
		ExpectedPlaceName: expected.PlaceName,
		DayOfWeek:         expected.DayOfWeek,
		HourBucket:        expected.HourBucket,
		Confidence:        expected.Confidence,
	}
	if open != nil {
		report.ActualPlaceID = &open.PlaceID
	}
	return report, nil
}
