package handlers

import (
	"net/url"
	"time"

	"github.com/gorilla/schema"

	"github.com/vancomm/enigmind-server/internal/enigmind"
	"github.com/vancomm/enigmind-server/internal/repository"
	"github.com/vancomm/enigmind-server/internal/session"
)

var decoder = func() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}()

type CreateNewGameDTO struct {
	Base        int `schema:"base"`
	ColumnCount int `schema:"column_count"`
	Difficulty  int `schema:"difficulty"`
}

func ParseCreateNewGameDTO(src url.Values) (CreateNewGameDTO, error) {
	dto := CreateNewGameDTO{Base: 5, ColumnCount: 3}
	err := decoder.Decode(&dto, src)
	return dto, err
}

func ParseHighscoreFilter(src url.Values) (repository.HighscoreFilter, error) {
	var filter repository.HighscoreFilter
	err := decoder.Decode(&filter, src)
	return filter, err
}

type RuleDTO struct {
	Rule enigmind.Rule `json:"rule"`
	Name string        `json:"name"`
	Text string        `json:"text"`
}

func NewRuleDTO(r enigmind.Rule) RuleDTO {
	return RuleDTO{Rule: r, Name: r.String(), Text: r.Text()}
}

type CriteriaDTO struct {
	Description string    `json:"description"`
	Rules       []RuleDTO `json:"rules"`
	Verifier    *RuleDTO  `json:"verifier,omitempty"`
}

// NewCriteriaDTO hides the verifier rule unless reveal is set.
func NewCriteriaDTO(c enigmind.Criteria, reveal bool) CriteriaDTO {
	dto := CriteriaDTO{
		Description: c.Description,
		Rules:       make([]RuleDTO, len(c.Rules)),
	}
	for i, r := range c.Rules {
		dto.Rules[i] = NewRuleDTO(r)
	}
	if reveal {
		v := NewRuleDTO(c.Verifier.Rule)
		dto.Verifier = &v
	}
	return dto
}

type GameSessionDTO struct {
	GameSessionId string                     `json:"game_session_id"`
	Configuration enigmind.GameConfiguration `json:"configuration"`
	Criterias     []CriteriaDTO              `json:"criterias"`
	Logs          []session.TestLog          `json:"logs"`
	TestCount     int                        `json:"test_count"`
	BidCount      int                        `json:"bid_count"`
	Won           bool                       `json:"won"`
	Forfeit       bool                       `json:"forfeit"`
	Code          enigmind.Code              `json:"code,omitempty"`
	StartedAt     int64                      `json:"started_at"`
	EndedAt       *int64                     `json:"ended_at,omitempty"`
}

// NewGameSessionDTO withholds the code and the verifiers until the session
// is over.
func NewGameSessionDTO(gs *repository.GameSession, s *session.State) *GameSessionDTO {
	over := s.Over()
	dto := &GameSessionDTO{
		GameSessionId: gs.GameSessionId.String(),
		Configuration: s.Game.Configuration,
		Criterias:     make([]CriteriaDTO, len(s.Game.Criterias)),
		Logs:          s.Logs,
		TestCount:     len(s.Logs),
		BidCount:      s.BidCount,
		Won:           s.Won,
		Forfeit:       s.Forfeit,
		StartedAt:     gs.StartedAt.UnixMilli(),
		EndedAt:       unixMilliOrNil(gs.EndedAt),
	}
	for i, c := range s.Game.Criterias {
		dto.Criterias[i] = NewCriteriaDTO(c, over)
	}
	if dto.Logs == nil {
		dto.Logs = []session.TestLog{}
	}
	if over {
		dto.Code = s.Game.Code
	}
	return dto
}

func unixMilliOrNil(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

type TestResultDTO struct {
	Results []session.TestLog `json:"results"`
	Session *GameSessionDTO   `json:"session"`
}

type BidResultDTO struct {
	Correct bool            `json:"correct"`
	Session *GameSessionDTO `json:"session"`
}
