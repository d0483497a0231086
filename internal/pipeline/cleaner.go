package pipeline

import (
	"fmt"

	"travelclean/internal"
	"travelclean/internal/column"
	"travelclean/internal/config"
	"travelclean/internal/datetime"
	"travelclean/internal/logger"
)

const (
	ColHotelStar    = "Hotel Star"
	ColGuestRating  = "Guest Rating"
	ColCheckinDate  = "Checkin Date"
	ColCheckoutDate = "Checkout Date"

	ColDate          = "date"
	ColAirline       = "airline"
	ColDepartureTime = "departure_time"
	ColArrivalTime   = "arrival_time"
	ColOrigin        = "origin"
	ColDestination   = "destination"
	ColSeatClass     = "seat_class"
	ColTransit       = "transit"
	ColBaggage       = "baggage"
)

type Schema struct {
	Name         string
	Kind         internal.SourceKind
	Rename       map[string]string
	Drop         []string
	Required     []string
	CommaDecimal bool
}

func SchemaFromSource(src config.Source) Schema {
	src = src.WithDefaults()
	return Schema{
		Name:         src.Name,
		Kind:         src.Kind,
		Rename:       src.Rename,
		Drop:         src.Drop,
		Required:     src.Required,
		CommaDecimal: src.CommaDecimal,
	}
}

type Cleaner struct {
	log *logger.Logger
}

func NewCleaner(log *logger.Logger) *Cleaner {
	return &Cleaner{log: log}
}

// Clean returns a cleaned copy of raw. The input table is left untouched.
func (c *Cleaner) Clean(raw *internal.Table, schema Schema) (*internal.Table, error) {
	t := raw.Clone()
	if schema.Name != "" {
		t.Name = schema.Name
	}
	if err := t.RenameColumns(schema.Rename); err != nil {
		return nil, err
	}
	t.DropColumns(schema.Drop...)

	before := t.Len()
	if err := t.DropNullRows(schema.Required...); err != nil {
		return nil, err
	}
	c.log.Debug("dropped rows missing required fields", "source", t.Name, "rows", before-t.Len())

	var err error
	switch schema.Kind {
	case internal.KindHotel:
		err = c.cleanHotel(t, schema)
	case internal.KindFlight:
		err = c.cleanFlight(t, schema)
	default:
		err = fmt.Errorf("unknown source kind %q", schema.Kind)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (c *Cleaner) cleanHotel(t *internal.Table, schema Schema) error {
	star, err := column.CleanHotelStar(t, ColHotelStar)
	if err != nil {
		return err
	}
	c.logResult(t.Name, star)

	rating, err := column.CleanGuestRating(t, ColGuestRating, column.RatingOptions{CommaDecimal: schema.CommaDecimal})
	if err != nil {
		return err
	}
	c.logResult(t.Name, rating)

	rep, err := datetime.UnifyStayDates(t, ColCheckinDate, ColCheckoutDate)
	if err != nil {
		return err
	}
	c.logReport(t.Name, rep)
	return nil
}

func (c *Cleaner) cleanFlight(t *internal.Table, _ Schema) error {
	for _, col := range []string{ColOrigin, ColDestination} {
		if !t.HasColumn(col) {
			continue
		}
		res, err := column.CleanAirport(t, col)
		if err != nil {
			return err
		}
		c.logResult(t.Name, res)
	}

	if t.HasColumn(ColSeatClass) {
		res, err := column.CleanSeatClass(t, ColSeatClass)
		if err != nil {
			return err
		}
		c.logResult(t.Name, res)
	}

	if t.HasColumn(ColTransit) {
		res, err := column.CleanTransit(t, ColTransit)
		if err != nil {
			return err
		}
		c.logResult(t.Name, res)
	}

	if t.HasColumn(ColBaggage) {
		res, err := column.CleanBaggage(t, ColBaggage, ColAirline)
		if err != nil {
			return err
		}
		c.logResult(t.Name, res)
	}

	if t.HasColumn(ColDate) {
		rep, err := datetime.UnifyFlightDate(t, ColDate)
		if err != nil {
			return err
		}
		c.logReport(t.Name, rep)
	}

	for _, rep := range datetime.UnifyClockTimes(t, ColDepartureTime, ColArrivalTime) {
		c.logReport(t.Name, rep)
	}
	return nil
}

func (c *Cleaner) logResult(source string, res column.Result) {
	c.log.Info("column cleaned",
		"source", source,
		"column", res.Column,
		"invalid", res.Invalid,
		"filled", res.Filled,
		"fill", res.Fill,
		"rescaled", res.Rescaled,
	)
}

func (c *Cleaner) logReport(source string, rep datetime.Report) {
	c.log.Info("dates unified",
		"source", source,
		"column", rep.Column,
		"layout", rep.Layout,
		"fallback", rep.Fallback,
		"dropped", rep.Dropped,
		"nulled", rep.Nulled,
	)
}
