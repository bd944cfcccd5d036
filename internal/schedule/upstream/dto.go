package upstream

import (
	"time"

	"github.com/mpeix-go/schedule-backend/internal/schedule"
	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

// rawSearchResultDTO is the upstream's search response shape (spec.md
// §4.4): id:int64, label:string, description:string, type:string.
type rawSearchResultDTO struct {
	ID          int64  `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

func (d rawSearchResultDTO) toDomain() schedule.RawSearchResult {
	return schedule.RawSearchResult{
		ID:          d.ID,
		Label:       d.Label,
		Description: d.Description,
		Type:        d.Type,
	}
}

// rawClassDTO is one lesson as the upstream encodes it: auditorium,
// beginLesson/endLesson (HH:MM), date (YYYY.MM.DD), discipline,
// kindOfWork, lecturer, and one of stream/group (spec.md §4.4).
type rawClassDTO struct {
	Auditorium  string `json:"auditorium"`
	BeginLesson string `json:"beginLesson"`
	EndLesson   string `json:"endLesson"`
	Date        string `json:"date"`
	Discipline  string `json:"discipline"`
	KindOfWork  string `json:"kindOfWork"`
	Lecturer    string `json:"lecturer"`
	Stream      string `json:"stream"`
	Group       string `json:"group"`
}

func (d rawClassDTO) toDomain() (schedule.RawClass, error) {
	begin, err := time.Parse("15:04", d.BeginLesson)
	if err != nil {
		return schedule.RawClass{}, apperrors.NewInternal("parse beginLesson", err)
	}
	end, err := time.Parse("15:04", d.EndLesson)
	if err != nil {
		return schedule.RawClass{}, apperrors.NewInternal("parse endLesson", err)
	}
	date, err := time.Parse("2006.01.02", d.Date)
	if err != nil {
		return schedule.RawClass{}, apperrors.NewInternal("parse date", err)
	}
	return schedule.RawClass{
		Auditorium:  d.Auditorium,
		BeginLesson: begin,
		EndLesson:   end,
		Date:        date,
		Discipline:  d.Discipline,
		KindOfWork:  d.KindOfWork,
		Lecturer:    d.Lecturer,
		Stream:      d.Stream,
		Group:       d.Group,
	}, nil
}
