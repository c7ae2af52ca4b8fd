package restserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Dime2015/lifekline/internal/types"
	"github.com/Dime2015/lifekline/pkg/bazi"
	"github.com/Dime2015/lifekline/pkg/lunisolar"
	"github.com/Dime2015/lifekline/pkg/responseformat"
	"github.com/Dime2015/lifekline/pkg/solartime"
)

// Handlers holds the HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates the handler set for a controller
func NewHandlers(c *Controller) *Handlers {
	return &Handlers{
		controller: c,
		formatter:  responseformat.NewFormatter(),
	}
}

type pillarLabels struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
	Hour  string `json:"hour"`
}

type boundaryResponse struct {
	Name string `json:"name"`
	At   string `json:"at"`
}

type onsetResponse struct {
	Years   int    `json:"years"`
	Months  int    `json:"months"`
	Days    int    `json:"days"`
	Display string `json:"display"`
}

type chartResponse struct {
	RequestID       string           `json:"request_id"`
	BirthMoment     string           `json:"birth_moment"`
	CorrectedMoment string           `json:"corrected_moment"`
	Pillars         pillarLabels     `json:"pillars"`
	Direction       string           `json:"direction"`
	FirstLuckPillar string           `json:"first_luck_pillar"`
	Boundary        boundaryResponse `json:"boundary"`
	Onset           onsetResponse    `json:"onset"`
	StartingAge     int              `json:"starting_age"`
}

// GetChart computes a Four Pillars chart from query parameters:
// date (YYYY-MM-DD), time (HH:MM), gender (male|female), and optionally
// longitude, latitude and tz-offset (reference UTC offset in hours).
func (h *Handlers) GetChart(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	moment, err := solartime.Parse(q.Get("date"), q.Get("time"))
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err.Error())
		return
	}

	gender, err := bazi.ParseGender(q.Get("gender"))
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err.Error())
		return
	}

	in := bazi.Input{Moment: moment, Gender: gender}

	if v := q.Get("longitude"); v != "" {
		lon, err := strconv.ParseFloat(v, 64)
		if err != nil || lon < -180 || lon > 180 {
			h.formatter.WriteError(w, req, http.StatusBadRequest, "longitude must be a number in [-180,180]")
			return
		}
		in.Longitude = &lon
	}
	if v := q.Get("latitude"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			h.formatter.WriteError(w, req, http.StatusBadRequest, "latitude must be a number")
			return
		}
		in.Latitude = &lat
	}
	if v := q.Get("tz-offset"); v != "" {
		offset, err := strconv.ParseFloat(v, 64)
		if err != nil {
			h.formatter.WriteError(w, req, http.StatusBadRequest, "tz-offset must be a number of hours")
			return
		}
		in.UTCOffsetHours = &offset
	}

	chart, err := bazi.Compute(req.Context(), h.controller.provider, in)
	if err != nil {
		switch {
		case errors.Is(err, solartime.ErrInvalidMoment):
			h.formatter.WriteError(w, req, http.StatusBadRequest, err.Error())
		case errors.Is(err, lunisolar.ErrUnavailable):
			h.formatter.WriteError(w, req, http.StatusBadGateway, err.Error())
		default:
			h.formatter.WriteError(w, req, http.StatusInternalServerError, err.Error())
		}
		return
	}

	requestID := requestIDFrom(req.Context())
	h.storeChart(requestID, in, chart)

	resp := chartResponse{
		RequestID:       requestID,
		BirthMoment:     moment.String(),
		CorrectedMoment: chart.Corrected.String(),
		Pillars: pillarLabels{
			Year:  chart.Pillars.Year.String(),
			Month: chart.Pillars.Month.String(),
			Day:   chart.Pillars.Day.String(),
			Hour:  chart.Pillars.Hour.String(),
		},
		Direction:       chart.Direction.String(),
		FirstLuckPillar: chart.FirstLuck.String(),
		Boundary: boundaryResponse{
			Name: chart.Boundary.Name,
			At:   chart.Boundary.At.String(),
		},
		Onset: onsetResponse{
			Years:   chart.Onset.Years,
			Months:  chart.Onset.Months,
			Days:    chart.Onset.Days,
			Display: chart.Onset.String(),
		},
		StartingAge: chart.StartingAge,
	}
	h.formatter.WriteResponse(w, req, resp)
}

func (h *Handlers) storeChart(requestID string, in bazi.Input, chart *bazi.Chart) {
	if h.controller.storage == nil {
		return
	}
	offset := solartime.DefaultUTCOffsetHours
	if in.UTCOffsetHours != nil {
		offset = *in.UTCOffsetHours
	}
	h.controller.storage.Store(types.ChartRecord{
		Timestamp:       time.Now().UTC(),
		RequestID:       requestID,
		BirthMoment:     in.Moment.String(),
		CorrectedMoment: chart.Corrected.String(),
		Gender:          in.Gender.String(),
		Longitude:       in.Longitude,
		UTCOffsetHours:  offset,
		YearPillar:      chart.Pillars.Year.String(),
		MonthPillar:     chart.Pillars.Month.String(),
		DayPillar:       chart.Pillars.Day.String(),
		HourPillar:      chart.Pillars.Hour.String(),
		Direction:       chart.Direction.String(),
		FirstLuckPillar: chart.FirstLuck.String(),
		OnsetYears:      chart.Onset.Years,
		OnsetMonths:     chart.Onset.Months,
		OnsetDays:       chart.Onset.Days,
		StartingAge:     chart.StartingAge,
	})
}

// yearLister is satisfied by providers that can enumerate the Jie of a
// civil year. Both shipped providers implement it; it is not part of the
// core Provider contract.
type yearLister interface {
	JieOfYear(ctx context.Context, year int) ([]lunisolar.Term, error)
}

type jieResponse struct {
	Longitude int    `json:"longitude"`
	Name      string `json:"name"`
	At        string `json:"at"`
}

// GetJieYear returns the Jie boundaries of a civil year.
func (h *Handlers) GetJieYear(w http.ResponseWriter, req *http.Request) {
	year, err := strconv.Atoi(mux.Vars(req)["year"])
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "year must be numeric")
		return
	}

	lister, ok := h.controller.provider.(yearLister)
	if !ok {
		h.formatter.WriteError(w, req, http.StatusNotImplemented, "provider cannot enumerate terms by year")
		return
	}

	terms, err := lister.JieOfYear(req.Context(), year)
	if err != nil {
		if errors.Is(err, lunisolar.ErrUnavailable) {
			h.formatter.WriteError(w, req, http.StatusBadGateway, err.Error())
			return
		}
		h.formatter.WriteError(w, req, http.StatusInternalServerError, err.Error())
		return
	}

	resp := make([]jieResponse, 0, len(terms))
	for _, t := range terms {
		resp = append(resp, jieResponse{
			Longitude: t.Longitude,
			Name:      t.Name,
			At:        t.At.String(),
		})
	}
	h.formatter.WriteResponse(w, req, resp)
}

// GetHealth reports whether the provider can answer a boundary query.
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	now := solartime.FromTime(time.Now())
	_, err := h.controller.provider.NextJie(req.Context(), now)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusServiceUnavailable, err.Error())
		return
	}
	h.formatter.WriteResponse(w, req, map[string]string{"status": "ok"})
}
