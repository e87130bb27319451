package consultation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/models"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/ganzhi"
)

// SessionKey is the cookie session field holding the chat session ID.
const SessionKey = "sid"

// User facing failure messages.
const (
	msgReadingFailed   = "운명을 읽는 도중 신호가 불안정해졌어요."
	msgSajuChatFailed  = "잠시 대화가 어려워요."
	msgAstroChatFailed = "별의 신호가 약해졌어요."
	msgUnavailable     = "지금은 운명의 서고가 닫혀 있어요. 잠시 후 다시 찾아 주세요."
	msgChatLimit       = "오늘의 추가 질문을 모두 사용했어요. 새로운 상담을 시작해 주세요."
	msgMissingData     = "입력 데이터가 부족해요."
	msgConversion      = "존재하지 않는 음력 날짜예요. 날짜와 윤달 여부를 다시 확인해 주세요."
	msgInternal        = "알 수 없는 오류가 발생했어요."
	msgTooLarge        = "요청 데이터가 너무 커요."
)

// Messages for rejected birth fields, keyed by InvalidDateError.Field.
var dateFieldMessages = map[string]string{
	"birthDate":    "생년월일은 YYYY-MM-DD 형식으로 입력해 주세요.",
	"year":         fmt.Sprintf("태어난 해는 %d년부터 %d년 사이로 입력해 주세요.", ganzhi.MinYear, ganzhi.MaxYear),
	"month":        "태어난 달은 1월부터 12월 사이로 입력해 주세요.",
	"day":          "존재하지 않는 날짜예요. 태어난 날을 다시 확인해 주세요.",
	"birthTime":    "태어난 시간은 14:30 또는 오후 2시 30분처럼 입력해 주세요.",
	"hour":         "태어난 시간은 0시부터 23시 사이로 입력해 주세요.",
	"calendarType": "양력, 음력, 음력(윤달) 중에서 선택해 주세요.",
}

const msgBadBirth = "생년월일과 태어난 시간을 다시 확인해 주세요."

func dateErrorMessage(err *ganzhi.InvalidDateError) string {
	if msg, ok := dateFieldMessages[err.Field]; ok {
		return msg
	}
	return msgBadBirth
}

type Handler struct {
	service Service
	log     *zap.Logger
}

func NewHandler(service Service, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

// SajuConsultation handles POST /api/saju/consultation.
func (h *Handler) SajuConsultation(c *gin.Context) {
	h.consult(c, models.KindSaju)
}

// AstrologyConsultation handles POST /api/astrology/consultation.
func (h *Handler) AstrologyConsultation(c *gin.Context) {
	h.consult(c, models.KindAstrology)
}

// SajuChat handles POST /api/saju/chat.
func (h *Handler) SajuChat(c *gin.Context) {
	h.chat(c, models.KindSaju, msgSajuChatFailed)
}

// AstrologyChat handles POST /api/astrology/chat.
func (h *Handler) AstrologyChat(c *gin.Context) {
	h.chat(c, models.KindAstrology, msgAstroChatFailed)
}

func (h *Handler) consult(c *gin.Context, kind models.ReadingKind) {
	var req models.ConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Info("Malformed consultation body", zap.String("kind", string(kind)), zap.Error(err))
		h.badBody(c, err)
		return
	}

	info := userInfo(req.RawData)
	var (
		reading *models.Reading
		err     error
	)
	if kind == models.KindSaju {
		reading, err = h.service.Saju(c.Request.Context(), info)
	} else {
		reading, err = h.service.Astrology(c.Request.Context(), info)
	}
	if err != nil {
		h.respondError(c, err, msgReadingFailed)
		return
	}

	h.service.ResetChat(h.sessionID(c), kind)

	resp := models.ConsultationResponse{
		Success:      true,
		Consultation: reading.Text,
		Chart:        reading.Chart,
	}
	if reading.Pillars != nil {
		resp.Pillars = models.NewPillarsView(reading.Pillars)
		resp.Elements = reading.Pillars.Elements.Map()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) chat(c *gin.Context, kind models.ReadingKind, failure string) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Info("Malformed chat body", zap.String("kind", string(kind)), zap.Error(err))
		h.badBody(c, err)
		return
	}

	reply, err := h.service.Chat(c.Request.Context(), h.sessionID(c), kind, req.UserMessage, userInfo(req.RawData))
	if err != nil {
		h.respondError(c, err, failure)
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{
		Success:   true,
		Answer:    reply.Answer,
		Remaining: reply.Remaining,
	})
}

// sessionID returns the browser's chat session ID, issuing one on first use.
func (h *Handler) sessionID(c *gin.Context) string {
	session := sessions.Default(c)
	if sid, ok := session.Get(SessionKey).(string); ok && sid != "" {
		return sid
	}
	sid := uuid.NewString()
	session.Set(SessionKey, sid)
	if err := session.Save(); err != nil {
		h.log.Warn("Failed to save session cookie", zap.Error(err))
	}
	return sid
}

func (h *Handler) respondError(c *gin.Context, err error, failure string) {
	var dateErr *ganzhi.InvalidDateError
	var convErr *ganzhi.CalendarConversionError

	switch {
	case errors.As(err, &dateErr):
		h.log.Info("Rejected birth data", zap.Error(dateErr))
		h.fail(c, http.StatusBadRequest, dateErrorMessage(dateErr))
	case errors.As(err, &convErr):
		h.fail(c, http.StatusUnprocessableEntity, msgConversion)
	case errors.Is(err, models.ErrInvalidName):
		h.fail(c, http.StatusBadRequest, models.ErrInvalidName.Error())
	case errors.Is(err, models.ErrMissingRawData):
		h.fail(c, http.StatusBadRequest, msgMissingData)
	case errors.Is(err, models.ErrEmptyMessage):
		h.fail(c, http.StatusBadRequest, "질문을 입력해 주세요.")
	case errors.Is(err, models.ErrValidation):
		h.fail(c, http.StatusBadRequest, msgMissingData)
	case errors.Is(err, models.ErrChatLimitReached):
		h.fail(c, http.StatusTooManyRequests, msgChatLimit)
	case errors.Is(err, models.ErrLLMUnavailable):
		h.fail(c, http.StatusServiceUnavailable, msgUnavailable)
	case errors.Is(err, models.ErrLLMFailure):
		h.fail(c, http.StatusBadGateway, failure)
	default:
		h.log.Error("Unhandled consultation error", zap.Error(err))
		h.fail(c, http.StatusInternalServerError, msgInternal)
	}
}

// badBody answers 413 when the body limit cut the read short.
func (h *Handler) badBody(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		h.fail(c, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}
	h.fail(c, http.StatusBadRequest, msgMissingData)
}

func (h *Handler) fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{Success: false, Error: message})
}

func userInfo(raw *models.RawData) *models.UserInfo {
	if raw == nil {
		return nil
	}
	return raw.UserInfo
}
