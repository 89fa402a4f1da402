package httpapi

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lexdrill/internal/entity"
	"github.com/eslsoft/lexdrill/internal/repository"
	"github.com/eslsoft/lexdrill/internal/usecase"
)

// Handler exposes the practice engine over REST. Wire field names follow
// the dictionary format's Spanish keys.
type Handler struct {
	practice usecase.PracticeUsecase
	words    repository.WordStore
	logger   *logrus.Logger

	defaultLevel int
	defaultSize  int
}

func NewHandler(practice usecase.PracticeUsecase, words repository.WordStore, logger *logrus.Logger, defaultLevel, defaultSize int) *Handler {
	return &Handler{
		practice:     practice,
		words:        words,
		logger:       logger,
		defaultLevel: defaultLevel,
		defaultSize:  defaultSize,
	}
}

// Register mounts the API under /api/v1.
func (h *Handler) Register(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.POST("/sessions", h.createSession)
	g.POST("/sessions/:id/challenges/:idx/verify", h.verifyAnswer)
	g.GET("/words/:word", h.getWord)
}

type createSessionRequest struct {
	UserID string `json:"usuario"`
	Level  int    `json:"nivel"`
	Size   int    `json:"num_retos"`
	Type   string `json:"tipo_reto"`
}

type createSessionResponse struct {
	SessionID  string                     `json:"sesion_id"`
	Reason     entity.SessionReason       `json:"motivo"`
	Challenges []*entity.ChallengePayload `json:"retos"`
}

func (h *Handler) createSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.Level <= 0 {
		req.Level = h.defaultLevel
	}
	if req.Size <= 0 {
		req.Size = h.defaultSize
	}
	var typ entity.ChallengeType
	if req.Type != "" {
		if typ = entity.ParseChallengeType(req.Type); typ == "" {
			return echo.NewHTTPError(http.StatusBadRequest, entity.ErrUnknownChallenge.Error())
		}
	}

	plan, err := h.practice.StartSession(c.Request().Context(), req.UserID, req.Level, req.Size, typ)
	if err != nil {
		return h.mapError(err)
	}

	resp := createSessionResponse{
		SessionID:  plan.ID.String(),
		Reason:     plan.Reason,
		Challenges: make([]*entity.ChallengePayload, 0, len(plan.Challenges)),
	}
	for _, pc := range plan.Challenges {
		resp.Challenges = append(resp.Challenges, pc.Payload)
	}
	return c.JSON(http.StatusCreated, resp)
}

type verifyRequest struct {
	Answer string `json:"respuesta"`
}

func (h *Handler) verifyAnswer(c echo.Context) error {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed session id")
	}
	var idx int
	if err := echo.PathParamsBinder(c).Int("idx", &idx).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed challenge index")
	}
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	res, err := h.practice.VerifyAnswer(c.Request().Context(), sessionID, idx, req.Answer)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, res)
}

type wordResponse struct {
	Word         string              `json:"palabra"`
	Categories   []entity.Category   `json:"categorias"`
	Domain       entity.Domain       `json:"dominio"`
	Level        int                 `json:"nivel"`
	Translations map[string][]string `json:"traducciones,omitempty"`
	Definitions  []string            `json:"definiciones,omitempty"`
	Synonyms     []string            `json:"sinonimos,omitempty"`
	Hypernyms    []string            `json:"hypernyms,omitempty"`
}

func (h *Handler) getWord(c echo.Context) error {
	entry := h.words.Get(c.Param("word"))
	if entry == nil {
		return echo.NewHTTPError(http.StatusNotFound, entity.ErrWordNotFound.Error())
	}
	return c.JSON(http.StatusOK, wordResponse{
		Word:         entry.Word,
		Categories:   entry.Categories,
		Domain:       entry.Domain,
		Level:        entry.Level,
		Translations: entry.Translations,
		Definitions:  entry.Definitions,
		Synonyms:     entry.Synonyms,
		Hypernyms:    entry.Hypernyms,
	})
}

// mapError translates domain errors into HTTP statuses.
func (h *Handler) mapError(err error) error {
	switch {
	case errors.Is(err, entity.ErrInvalidUserID),
		errors.Is(err, entity.ErrUnknownChallenge),
		errors.Is(err, entity.ErrEmptyAnswer),
		errors.Is(err, entity.ErrInvalidAnswer):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrSessionNotFound),
		errors.Is(err, entity.ErrChallengeIndex),
		errors.Is(err, entity.ErrWordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entity.ErrChallengeComplete):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		h.logger.WithError(err).Error("request failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
