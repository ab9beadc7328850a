package domain

import (
	"time"
)

// PhotoDateLayout is the date format used by progress photos and weight logs.
const PhotoDateLayout = "2006-01-02"

// BodyMeasurement holds optional circumferences in centimeters.
type BodyMeasurement struct {
	Chest  *float64 `bson:"chest,omitempty" json:"chest,omitempty"`
	Waist  *float64 `bson:"waist,omitempty" json:"waist,omitempty"`
	Hips   *float64 `bson:"hips,omitempty" json:"hips,omitempty"`
	Arms   *float64 `bson:"arms,omitempty" json:"arms,omitempty"`
	Thighs *float64 `bson:"thighs,omitempty" json:"thighs,omitempty"`
}

// Empty reports whether no measurement is set.
func (m BodyMeasurement) Empty() bool {
	return m.Chest == nil && m.Waist == nil && m.Hips == nil && m.Arms == nil && m.Thighs == nil
}

// ProgressPhoto stores a user-submitted body photo with weight at that date.
// The image itself lives in file storage; ImageURL is its reference.
type ProgressPhoto struct {
	ID           string           `bson:"_id" json:"id"`
	UserID       string           `bson:"userId" json:"userId"`
	Date         string           `bson:"date" json:"date"` // YYYY-MM-DD
	ImageURL     string           `bson:"imageUrl" json:"imageUrl"`
	Weight       float64          `bson:"weight" json:"weight"`
	Notes        string           `bson:"notes,omitempty" json:"notes,omitempty"`
	Measurements *BodyMeasurement `bson:"measurements,omitempty" json:"measurements,omitempty"`
	UploadedAt   time.Time        `bson:"uploadedAt" json:"uploadedAt"`
}

// Clone returns a copy that does not share the measurement pointers.
func (p ProgressPhoto) Clone() ProgressPhoto {
	c := p
	if p.Measurements != nil {
		m := BodyMeasurement{
			Chest:  cloneFloat(p.Measurements.Chest),
			Waist:  cloneFloat(p.Measurements.Waist),
			Hips:   cloneFloat(p.Measurements.Hips),
			Arms:   cloneFloat(p.Measurements.Arms),
			Thighs: cloneFloat(p.Measurements.Thighs),
		}
		c.Measurements = &m
	}
	return c
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// PhotoComparison summarizes the change between two progress photos.
type PhotoComparison struct {
	Before       ProgressPhoto      `json:"before"`
	After        ProgressPhoto      `json:"after"`
	WeightDiff   float64            `json:"weightDiff"` // before - after, positive means weight lost
	DaysDiff     int                `json:"daysDiff"`
	Measurements map[string]float64 `json:"measurements,omitempty"` // before - after, only where both are set
}

// ComparePhotos computes the difference between two photos.
func ComparePhotos(before, after ProgressPhoto) (PhotoComparison, error) {
	b, err := time.Parse(PhotoDateLayout, before.Date)
	if err != nil {
		return PhotoComparison{}, err
	}
	a, err := time.Parse(PhotoDateLayout, after.Date)
	if err != nil {
		return PhotoComparison{}, err
	}
	cmp := PhotoComparison{
		Before:     before,
		After:      after,
		WeightDiff: before.Weight - after.Weight,
		DaysDiff:   int(a.Sub(b).Hours() / 24),
	}
	if before.Measurements != nil && after.Measurements != nil {
		diffs := map[string]float64{}
		pairs := []struct {
			name string
			b, a *float64
		}{
			{"chest", before.Measurements.Chest, after.Measurements.Chest},
			{"waist", before.Measurements.Waist, after.Measurements.Waist},
			{"hips", before.Measurements.Hips, after.Measurements.Hips},
			{"arms", before.Measurements.Arms, after.Measurements.Arms},
			{"thighs", before.Measurements.Thighs, after.Measurements.Thighs},
		}
		for _, p := range pairs {
			if p.b != nil && p.a != nil {
				diffs[p.name] = *p.b - *p.a
			}
		}
		if len(diffs) > 0 {
			cmp.Measurements = diffs
		}
	}
	return cmp, nil
}
