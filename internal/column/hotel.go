package column

import (
	"travelclean/internal"
	"travelclean/internal/normalize"
	"travelclean/internal/util"
)

type Result struct {
	Column   string
	Invalid  int
	Filled   int
	Fill     any
	Rescaled bool
}

// CleanHotelStar nulls every value outside 1..5 and fills nulls with the column mode.
// A column without a single valid star stays all-null and is typed decimal.
func CleanHotelStar(t *internal.Table, col string) (Result, error) {
	if err := t.RequireColumns(col); err != nil {
		return Result{}, err
	}
	res := Result{Column: col}

	raw := t.Column(col)
	stars := make([]*int64, len(raw))
	valid := make([]int64, 0, len(raw))
	for i, v := range raw {
		star, ok := normalize.Star(v)
		if !ok {
			if !internal.IsNull(v) {
				res.Invalid++
			}
			continue
		}
		stars[i] = &star
		valid = append(valid, star)
	}

	mode, ok := Mode(valid)
	if !ok {
		t.SetColumn(col, make([]any, len(raw)), internal.TypeDecimal)
		return res, nil
	}

	out := make([]any, len(raw))
	for i, s := range stars {
		if s == nil {
			out[i] = mode
			res.Filled++
			continue
		}
		out[i] = *s
	}
	res.Fill = mode
	t.SetColumn(col, out, internal.TypeInteger)
	return res, nil
}

type RatingOptions struct {
	// CommaDecimal reads "8,5" as 8.5.
	CommaDecimal bool
}

func CleanGuestRating(t *internal.Table, col string, opts RatingOptions) (Result, error) {
	if err := t.RequireColumns(col); err != nil {
		return Result{}, err
	}
	res := Result{Column: col}

	raw := t.Column(col)
	ratings := make([]*float64, len(raw))
	present := make([]float64, 0, len(raw))
	for i, v := range raw {
		r, ok := normalize.Rating(v, opts.CommaDecimal)
		if !ok {
			if !internal.IsNull(v) {
				res.Invalid++
			}
			continue
		}
		ratings[i] = &r
		present = append(present, r)
	}

	if top, ok := Max(present); ok && top <= 5 {
		res.Rescaled = true
		for _, r := range ratings {
			if r != nil {
				*r *= 2
			}
		}
	}

	clamped := make([]float64, 0, len(present))
	for _, r := range ratings {
		if r == nil {
			continue
		}
		*r = clamp(*r, 0, 10)
		clamped = append(clamped, *r)
	}

	median, hasMedian := Median(clamped)
	out := make([]any, len(raw))
	for i, r := range ratings {
		switch {
		case r != nil:
			out[i] = util.RoundHalfEven(*r, 1)
		case hasMedian:
			out[i] = util.RoundHalfEven(median, 1)
			res.Filled++
		}
	}
	if hasMedian {
		res.Fill = util.RoundHalfEven(median, 1)
	}
	t.SetColumn(col, out, internal.TypeDecimal)
	return res, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
