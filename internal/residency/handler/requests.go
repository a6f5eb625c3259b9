package handler

import (
	"daywise/internal/residency/models"
	"daywise/pkg/domain"
	dErrors "daywise/pkg/domain-errors"
)

type stayRequest struct {
	Territory string       `json:"territory"`
	EntryDate domain.Date  `json:"entry_date"`
	ExitDate  *domain.Date `json:"exit_date,omitempty"`
	Excluded  bool         `json:"excluded,omitempty"`
}

type forecastRequest struct {
	Territory string       `json:"territory"`
	EntryDate domain.Date  `json:"entry_date"`
	ExitDate  *domain.Date `json:"exit_date"`
	// StayID excludes an already-recorded stay from the history, so a saved
	// draft trip can be re-forecast without double counting.
	StayID string `json:"stay_id,omitempty"`
}

func (r forecastRequest) toStay(subjectID domain.SubjectID) (models.Stay, error) {
	if r.ExitDate == nil {
		return models.Stay{}, dErrors.New(dErrors.CodeInvalidInput, "exit_date is required for a forecast")
	}
	st := models.Stay{
		SubjectID: subjectID,
		Territory: r.Territory,
		EntryDate: r.EntryDate,
		ExitDate:  r.ExitDate,
	}
	if r.StayID != "" {
		id, err := domain.ParseStayID(r.StayID)
		if err != nil {
			return models.Stay{}, err
		}
		st.ID = id
	}
	return st, nil
}

type safeEntryRequest struct {
	Territory     string      `json:"territory"`
	EarliestEntry domain.Date `json:"earliest_entry"`
	TripDays      int         `json:"trip_days"`
}

type sweepRequest struct {
	ReferenceDate domain.Date `json:"reference_date"`
}

type calendarResponse struct {
	From domain.Date          `json:"from"`
	To   domain.Date          `json:"to"`
	Days []models.DailyStatus `json:"days"`
}

type staysResponse struct {
	Stays []models.Stay `json:"stays"`
}
