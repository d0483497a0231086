package column

import (
	"travelclean/internal"
	"travelclean/internal/normalize"
	"travelclean/internal/util"
)

func CleanSeatClass(t *internal.Table, col string) (Result, error) {
	if err := t.RequireColumns(col); err != nil {
		return Result{}, err
	}
	res := Result{Column: col}
	raw := t.Column(col)
	out := make([]any, len(raw))
	for i, v := range raw {
		s, ok := normalize.SeatClass(v)
		if !ok {
			if !internal.IsNull(v) {
				res.Invalid++
			}
			continue
		}
		out[i] = s
	}
	t.SetColumn(col, out, internal.TypeCategorical)
	return res, nil
}

func CleanAirport(t *internal.Table, col string) (Result, error) {
	if err := t.RequireColumns(col); err != nil {
		return Result{}, err
	}
	res := Result{Column: col}
	raw := t.Column(col)
	out := make([]any, len(raw))
	for i, v := range raw {
		if code, ok := normalize.Airport(v); ok {
			out[i] = code
		}
	}
	t.SetColumn(col, out, internal.TypeCategorical)
	return res, nil
}

func CleanTransit(t *internal.Table, col string) (Result, error) {
	if err := t.RequireColumns(col); err != nil {
		return Result{}, err
	}
	res := Result{Column: col, Fill: int64(0)}
	raw := t.Column(col)
	out := make([]any, len(raw))
	for i, v := range raw {
		if internal.IsNull(v) {
			res.Filled++
		} else if _, ok := util.FirstDigits(util.CellString(v)); !ok {
			res.Invalid++
		}
		out[i] = normalize.TransitCount(v)
	}
	t.SetColumn(col, out, internal.TypeInteger)
	return res, nil
}

// CleanBaggage extracts kilograms and fills gaps with the mean of the same airline, then with
// the mean of the whole column. Values are rounded to whole kilograms.
func CleanBaggage(t *internal.Table, col, groupBy string) (Result, error) {
	if err := t.RequireColumns(col, groupBy); err != nil {
		return Result{}, err
	}
	res := Result{Column: col}

	raw := t.Column(col)
	keys := make([]string, len(raw))
	kgs := make([]*float64, len(raw))
	present := make([]float64, 0, len(raw))
	for i, v := range raw {
		if g := t.Rows[i][groupBy]; !internal.IsNull(g) {
			keys[i] = util.CellString(g)
		}
		kg, ok := normalize.FirstNumber(v)
		if !ok {
			if !internal.IsNull(v) {
				res.Invalid++
			}
			continue
		}
		kgs[i] = &kg
		present = append(present, kg)
	}

	byGroup := GroupMeans(keys, kgs)
	overall, hasOverall := Mean(present)
	if hasOverall {
		res.Fill = util.RoundHalfEven(overall, 0)
	}

	out := make([]any, len(raw))
	for i, kg := range kgs {
		if kg != nil {
			out[i] = int64(util.RoundHalfEven(*kg, 0))
			continue
		}
		if mean, ok := byGroup[keys[i]]; ok {
			out[i] = int64(util.RoundHalfEven(mean, 0))
			res.Filled++
			continue
		}
		if hasOverall {
			out[i] = int64(util.RoundHalfEven(overall, 0))
			res.Filled++
		}
	}
	typ := internal.TypeInteger
	if !hasOverall {
		typ = internal.TypeDecimal
	}
	t.SetColumn(col, out, typ)
	return res, nil
}
