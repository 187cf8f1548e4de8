package entities

import (
	"time"

	"github.com/platescout/platescout/pkg/errors"
)

// Restaurant represents a restaurant listing owned by the user who created it.
type Restaurant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Borough   string    `json:"borough"`
	Cuisine   string    `json:"cuisine"`
	Address   Address   `json:"address"`
	Photo     []byte    `json:"photo,omitempty"`
	Mimetype  string    `json:"mimetype,omitempty"`
	Grades    []Grade   `json:"grades"`
	UserID    string    `json:"userid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Address represents a restaurant's street address
type Address struct {
	Street   string `json:"street"`
	Building string `json:"building"`
	Zipcode  string `json:"zipcode"`
	Coord    Coord  `json:"coord"`
}

// Coord holds free-form coordinate strings. They are rendered verbatim on
// the map page, so no numeric parsing happens here.
type Coord struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// Grade is a single rating left by a user
type Grade struct {
	Score     float64   `json:"score"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// MinScore and MaxScore bound the accepted rating range, inclusive.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// Validate checks the fields a restaurant must carry before it is stored
func (r *Restaurant) Validate() error {
	if r.Name == "" {
		return errors.NewValidationError("The name is required")
	}
	for _, g := range r.Grades {
		if err := ValidateScore(g.Score); err != nil {
			return err
		}
	}
	return nil
}

// ValidateScore checks that a rating falls within the accepted range
func ValidateScore(score float64) error {
	if score < MinScore || score > MaxScore {
		return errors.NewValidationError("The score must be between 0 and 10")
	}
	return nil
}

// HasPhoto reports whether the restaurant carries an uploaded photo
func (r *Restaurant) HasPhoto() bool {
	return len(r.Photo) > 0 && r.Mimetype != ""
}

// RatedBy reports whether the given user has already graded this restaurant
func (r *Restaurant) RatedBy(userID string) bool {
	for _, g := range r.Grades {
		if g.User == userID {
			return true
		}
	}
	return false
}

// AverageScore returns the mean of all grades, or 0 when there are none
func (r *Restaurant) AverageScore() float64 {
	if len(r.Grades) == 0 {
		return 0
	}
	var sum float64
	for _, g := range r.Grades {
		sum += g.Score
	}
	return sum / float64(len(r.Grades))
}
