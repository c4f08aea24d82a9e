package session

// Rating is one of the fixed quality categories an annotator can assign.
type Rating string

const (
	RatingA        Rating = "A"
	RatingB        Rating = "B"
	RatingC        Rating = "C"
	RatingD        Rating = "D"
	RatingE        Rating = "E"
	RatingSkipping Rating = "SKIPPING"
)

// Ratings lists the accepted values in display order.
var Ratings = []Rating{RatingA, RatingB, RatingC, RatingD, RatingE, RatingSkipping}

// Valid reports whether r is one of the accepted rating values.
// Anything else is a caller contract violation and is rejected before any
// record is written.
func (r Rating) Valid() bool {
	switch r {
	case RatingA, RatingB, RatingC, RatingD, RatingE, RatingSkipping:
		return true
	}
	return false
}
