package models

import (
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/ganzhi"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/zodiac"
)

// ReadingKind selects which tradition a consultation or chat uses.
type ReadingKind string

const (
	KindSaju      ReadingKind = "saju"
	KindAstrology ReadingKind = "astrology"
)

// UserInfo is the birth data form as posted by the front-end.
type UserInfo struct {
	Name         string `json:"name"`
	Gender       string `json:"gender"`
	BirthDate    string `json:"birthDate"`
	BirthTime    string `json:"birthTime"`
	CalendarType string `json:"calendarType"`
	IsLeap       bool   `json:"isLeap"`
	Location     string `json:"location,omitempty"`
}

// RawData wraps UserInfo the way the front-end sends it.
type RawData struct {
	UserInfo *UserInfo `json:"userInfo"`
}

// ConsultationRequest is the body of the consultation endpoints.
type ConsultationRequest struct {
	RawData *RawData `json:"rawData"`
}

// ChatRequest is the body of the follow-up chat endpoints.
type ChatRequest struct {
	UserMessage string   `json:"userMessage"`
	RawData     *RawData `json:"rawData"`
}

// BirthInfo is UserInfo after parsing and validation.
type BirthInfo struct {
	Name     string
	Gender   string
	Date     ganzhi.Date
	Hour     int
	Minute   int
	Calendar ganzhi.CalendarSystem
	Location string
}

// Reading is the outcome of one consultation.
type Reading struct {
	Kind     ReadingKind
	Birth    BirthInfo
	Pillars  *ganzhi.Result
	Chart    *zodiac.Chart
	Text     string
	CacheHit bool
}

// ChatTurn is a single question and answer kept in a chat session.
type ChatTurn struct {
	Question string
	Answer   string
}

// ChatReply is the outcome of a follow-up question.
type ChatReply struct {
	Answer    string
	Remaining int
}

// PillarsView is the JSON rendering of computed pillars.
type PillarsView struct {
	Year     string         `json:"year"`
	Month    string         `json:"month"`
	Day      string         `json:"day"`
	Hour     string         `json:"hour"`
	Text     string         `json:"text"`
	Hanja    string         `json:"hanja"`
	Solar    string         `json:"solarDate"`
	Elements map[string]int `json:"elements"`
}

// NewPillarsView renders a calculator result for the API.
func NewPillarsView(r *ganzhi.Result) *PillarsView {
	if r == nil {
		return nil
	}
	return &PillarsView{
		Year:     r.Pillars.Year.String(),
		Month:    r.Pillars.Month.String(),
		Day:      r.Pillars.Day.String(),
		Hour:     r.Pillars.Hour.String(),
		Text:     r.Pillars.String(),
		Hanja:    r.Pillars.Hanja(),
		Solar:    r.Solar.String(),
		Elements: r.Elements.Map(),
	}
}

// ConsultationResponse is returned by the consultation endpoints.
type ConsultationResponse struct {
	Success      bool           `json:"success"`
	Consultation string         `json:"consultation"`
	Pillars      *PillarsView   `json:"pillars,omitempty"`
	Elements     map[string]int `json:"elements,omitempty"`
	Chart        *zodiac.Chart  `json:"chart,omitempty"`
}

// ChatResponse is returned by the chat endpoints.
type ChatResponse struct {
	Success   bool   `json:"success"`
	Answer    string `json:"answer"`
	Remaining int    `json:"remaining"`
}

// ErrorResponse is the failure shape shared by all API endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
