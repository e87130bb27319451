package consultation

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/llm"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/models"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/observability/metrics"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/ganzhi"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/zodiac"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the consultation and follow-up chat operations.
type Service interface {
	Saju(ctx context.Context, info *models.UserInfo) (*models.Reading, error)
	Astrology(ctx context.Context, info *models.UserInfo) (*models.Reading, error)
	Chat(ctx context.Context, sessionID string, kind models.ReadingKind, message string, info *models.UserInfo) (*models.ChatReply, error)
	ResetChat(sessionID string, kind models.ReadingKind) int
	Ready() bool
}

// LunarLookup renders the lunar equivalent of a solar date.
type LunarLookup interface {
	SolarToLunar(d ganzhi.Date) (ganzhi.LunarDate, error)
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	calc      *ganzhi.Calculator
	lunar     LunarLookup
	llm       llm.Generator
	prompts   *Prompts
	sanitizer *Sanitizer
	sessions  *Sessions
	logger    *zap.Logger
}

// NewService creates a new consultation service instance.
func NewService(calc *ganzhi.Calculator, lunar LunarLookup, gen llm.Generator, prompts *Prompts,
	sanitizer *Sanitizer, sessions *Sessions, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		calc:      calc,
		lunar:     lunar,
		llm:       gen,
		prompts:   prompts,
		sanitizer: sanitizer,
		sessions:  sessions,
		logger:    logger,
	}
}

// Ready reports whether a model is configured.
func (s *ServiceImpl) Ready() bool { return s.llm.Available() }

// Saju computes the four pillars and asks the model for a reading.
func (s *ServiceImpl) Saju(ctx context.Context, info *models.UserInfo) (*models.Reading, error) {
	ctx, span := otel.Tracer("ConsultationService").Start(ctx, "Saju")
	defer span.End()

	l := s.logger.With(zap.String("method", "Saju"))

	birth, result, err := s.resolve(ctx, info, models.KindSaju)
	if err != nil {
		l.Info("Rejected saju request", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid birth data")
		return nil, err
	}
	span.SetAttributes(
		attribute.String("saju.calendar", birth.Calendar.String()),
		attribute.String("saju.pillars", result.Pillars.Hanja()),
	)

	data := s.sajuData(birth, result)
	prompt, err := s.prompts.Render(PromptSajuConsultation, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "prompt rendering failed")
		return nil, err
	}

	resp, err := s.llm.Generate(ctx, llm.Request{Kind: string(models.KindSaju), System: s.prompts.Persona, Prompt: prompt})
	if err != nil {
		l.Error("Saju reading failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "reading failed")
		return nil, fmt.Errorf("saju reading: %w", err)
	}

	chart := zodiac.Compute(result.Solar.Month, result.Solar.Day, result.Hour)
	l.Info("Saju reading generated",
		zap.String("pillars", result.Pillars.String()),
		zap.Bool("cache_hit", resp.CacheHit))
	span.SetStatus(codes.Ok, "reading generated")
	return &models.Reading{
		Kind:     models.KindSaju,
		Birth:    birth,
		Pillars:  &result,
		Chart:    &chart,
		Text:     resp.Text,
		CacheHit: resp.CacheHit,
	}, nil
}

// Astrology places the birth date on the zodiac and asks for a Big 3 reading.
func (s *ServiceImpl) Astrology(ctx context.Context, info *models.UserInfo) (*models.Reading, error) {
	ctx, span := otel.Tracer("ConsultationService").Start(ctx, "Astrology")
	defer span.End()

	l := s.logger.With(zap.String("method", "Astrology"))

	birth, result, err := s.resolve(ctx, info, models.KindAstrology)
	if err != nil {
		l.Info("Rejected astrology request", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid birth data")
		return nil, err
	}

	chart := zodiac.Compute(result.Solar.Month, result.Solar.Day, result.Hour)
	span.SetAttributes(attribute.String("astrology.sun", chart.Sun.Name))

	prompt, err := s.prompts.Render(PromptAstrologyConsultation, s.astrologyData(birth, chart))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "prompt rendering failed")
		return nil, err
	}

	resp, err := s.llm.Generate(ctx, llm.Request{Kind: string(models.KindAstrology), System: s.prompts.Persona, Prompt: prompt})
	if err != nil {
		l.Error("Astrology reading failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "reading failed")
		return nil, fmt.Errorf("astrology reading: %w", err)
	}

	l.Info("Astrology reading generated", zap.String("sun", chart.Sun.Name), zap.Bool("cache_hit", resp.CacheHit))
	span.SetStatus(codes.Ok, "reading generated")
	return &models.Reading{
		Kind:     models.KindAstrology,
		Birth:    birth,
		Chart:    &chart,
		Text:     resp.Text,
		CacheHit: resp.CacheHit,
	}, nil
}

// Chat answers a follow-up question within the session's turn limit.
func (s *ServiceImpl) Chat(ctx context.Context, sessionID string, kind models.ReadingKind, message string, info *models.UserInfo) (*models.ChatReply, error) {
	ctx, span := otel.Tracer("ConsultationService").Start(ctx, "Chat", trace.WithAttributes(
		attribute.String("chat.kind", string(kind)),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Chat"), zap.String("kind", string(kind)), zap.String("session_id", sessionID))

	question := s.sanitizer.Clean(message)
	if question == "" {
		span.SetStatus(codes.Error, "empty message")
		return nil, models.ErrEmptyMessage
	}

	birth, result, err := s.resolve(ctx, info, kind)
	if err != nil {
		l.Info("Rejected chat request", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid birth data")
		return nil, err
	}

	var data PromptData
	name := PromptSajuChat
	if kind == models.KindAstrology {
		name = PromptAstrologyChat
		data = s.astrologyData(birth, zodiac.Compute(result.Solar.Month, result.Solar.Day, result.Hour))
	} else {
		data = s.sajuData(birth, result)
	}
	data.Question = question

	prompt, err := s.prompts.Render(name, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "prompt rendering failed")
		return nil, err
	}

	history, err := s.sessions.Reserve(sessionID, kind)
	if err != nil {
		l.Info("Chat limit reached", zap.Int("limit", s.sessions.Limit()))
		span.SetStatus(codes.Error, "chat limit reached")
		return nil, err
	}

	resp, err := s.llm.Generate(ctx, llm.Request{
		Kind:    "chat_" + string(kind),
		System:  s.prompts.Persona,
		Prompt:  prompt,
		History: history,
		NoCache: true,
	})
	if err != nil {
		s.sessions.Release(sessionID, kind)
		l.Error("Chat answer failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat failed")
		return nil, fmt.Errorf("chat answer: %w", err)
	}

	remaining := s.sessions.Complete(sessionID, kind, models.ChatTurn{Question: question, Answer: resp.Text})
	metrics.Get().ChatTurnsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(kind))))

	l.Info("Chat answered", zap.Int("remaining", remaining), zap.Int("history", len(history)))
	span.SetAttributes(attribute.Int("chat.remaining", remaining))
	span.SetStatus(codes.Ok, "answered")
	return &models.ChatReply{Answer: resp.Text, Remaining: remaining}, nil
}

// ResetChat restores the full follow-up allowance after a consultation.
func (s *ServiceImpl) ResetChat(sessionID string, kind models.ReadingKind) int {
	s.sessions.Reset(sessionID, kind)
	return s.sessions.Limit()
}

func (s *ServiceImpl) resolve(ctx context.Context, info *models.UserInfo, kind models.ReadingKind) (models.BirthInfo, ganzhi.Result, error) {
	birth, err := ParseBirthInfo(info, s.sanitizer)
	if err != nil {
		return models.BirthInfo{}, ganzhi.Result{}, err
	}
	result, err := s.calc.ComputePillars(birth.Date.Year, birth.Date.Month, birth.Date.Day, birth.Hour, birth.Calendar)
	if err != nil {
		return models.BirthInfo{}, ganzhi.Result{}, err
	}
	metrics.Get().PillarComputations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("calendar", birth.Calendar.String()),
	))
	return birth, result, nil
}

func (s *ServiceImpl) sajuData(birth models.BirthInfo, result ganzhi.Result) PromptData {
	data := PromptData{
		Name:      birth.Name,
		Gender:    birth.Gender,
		BirthDate: birth.Date.String(),
		BirthTime: birthTimeLabel(birth),
		Calendar:  calendarLabel(birth.Calendar),
		Pillars:   result.Pillars.String(),
		Hanja:     result.Pillars.Hanja(),
		Elements:  result.Elements.String(),
		Dominant:  joinElements(result.Elements.Dominant()),
		Missing:   joinElements(result.Elements.Missing()),
	}
	if birth.Calendar.IsLunar() {
		data.Lunar = ganzhi.LunarDate{
			Year: birth.Date.Year, Month: birth.Date.Month, Day: birth.Date.Day,
			Leap: birth.Calendar == ganzhi.LunarLeap,
		}.String()
	} else if s.lunar != nil {
		if ld, err := s.lunar.SolarToLunar(result.Solar); err == nil {
			data.Lunar = ld.String()
		} else {
			s.logger.Debug("No lunar date for prompt", zap.Error(err))
		}
	}
	return data
}

func (s *ServiceImpl) astrologyData(birth models.BirthInfo, chart zodiac.Chart) PromptData {
	return PromptData{
		Name:      birth.Name,
		Gender:    birth.Gender,
		BirthDate: birth.Date.String(),
		BirthTime: birthTimeLabel(birth),
		Calendar:  calendarLabel(birth.Calendar),
		Location:  birth.Location,
		Sun:       chart.Sun.Name,
		Moon:      chart.Moon.Name,
		Ascendant: chart.Ascendant.Name,
	}
}

func birthTimeLabel(b models.BirthInfo) string {
	if b.Hour == ganzhi.UnknownHour {
		return "모름 (정오 기준)"
	}
	return fmt.Sprintf("%02d:%02d", b.Hour, b.Minute)
}

func calendarLabel(c ganzhi.CalendarSystem) string {
	switch c {
	case ganzhi.Lunar:
		return "음력"
	case ganzhi.LunarLeap:
		return "음력 윤달"
	default:
		return "양력"
	}
}

func joinElements(es []ganzhi.Element) string {
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = e.String()
	}
	return strings.Join(names, ", ")
}
