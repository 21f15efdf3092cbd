package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/ErlanBelekov/personen-api/internal/domain"
	"github.com/ErlanBelekov/personen-api/internal/metrics"
	"github.com/ErlanBelekov/personen-api/internal/schema"
	"github.com/gin-gonic/gin"
)

type personUsecaser interface {
	Create(ctx context.Context, fields domain.PersonFields) (int64, error)
	List(ctx context.Context) ([]*domain.Person, error)
	GetByID(ctx context.Context, id int64) (*domain.Person, error)
	Update(ctx context.Context, id int64, fields domain.PersonFields) (*domain.Person, error)
	Delete(ctx context.Context, id int64) error
}

var idPattern = regexp.MustCompile(`^[0-9]+$`)

// maxPersonBodyBytes caps what bindPerson reads from a request.
const maxPersonBodyBytes = 64 << 10

type PersonHandler struct {
	personUsecase personUsecaser
	schema        *schema.Schema
	errs          errorReporter
}

func NewPersonHandler(personUsecase personUsecaser, s *schema.Schema, logger *slog.Logger, exposeErrors bool) *PersonHandler {
	return &PersonHandler{
		personUsecase: personUsecase,
		schema:        s,
		errs:          errorReporter{logger: logger.With("component", "person_handler"), expose: exposeErrors},
	}
}

type personResponse struct {
	ID            int64   `json:"id"`
	Vorname       string  `json:"vorname"`
	Nachname      string  `json:"nachname"`
	PLZ           *int    `json:"plz"`
	Strasse       *string `json:"strasse"`
	Ort           *string `json:"ort"`
	Telefonnummer *string `json:"telefonnummer"`
	Email         string  `json:"email"`
}

type createPersonResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

func toPersonResponse(p *domain.Person) personResponse {
	return personResponse{
		ID:            p.ID,
		Vorname:       p.Vorname,
		Nachname:      p.Nachname,
		PLZ:           p.PLZ,
		Strasse:       p.Strasse,
		Ort:           p.Ort,
		Telefonnummer: p.Telefonnummer,
		Email:         p.Email,
	}
}

// POST /person
func (h *PersonHandler) Create(c *gin.Context) {
	fields, ok := h.bindPerson(c)
	if !ok {
		return
	}

	id, err := h.personUsecase.Create(c.Request.Context(), fields)
	if err != nil {
		h.errs.internal(c, "create person", err)
		return
	}

	metrics.PersonMutationsTotal.WithLabelValues("create").Inc()
	c.JSON(http.StatusCreated, createPersonResponse{Message: "Person created", ID: id})
}

// GET /person
func (h *PersonHandler) List(c *gin.Context) {
	persons, err := h.personUsecase.List(c.Request.Context())
	if err != nil {
		h.errs.internal(c, "list persons", err)
		return
	}

	resp := make([]personResponse, len(persons))
	for i, p := range persons {
		resp[i] = toPersonResponse(p)
	}
	c.JSON(http.StatusOK, resp)
}

// GET /person/:id
func (h *PersonHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.personUsecase.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPersonNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Message: msgPersonNotFound})
			return
		}
		h.errs.internal(c, "get person", err, "person_id", id)
		return
	}

	c.JSON(http.StatusOK, toPersonResponse(p))
}

// PUT /person/:id replaces every field of the person.
func (h *PersonHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	fields, ok := h.bindPerson(c)
	if !ok {
		return
	}

	if _, err := h.personUsecase.Update(c.Request.Context(), id, fields); err != nil {
		if errors.Is(err, domain.ErrPersonNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Message: msgPersonNotFound})
			return
		}
		h.errs.internal(c, "update person", err, "person_id", id)
		return
	}

	metrics.PersonMutationsTotal.WithLabelValues("update").Inc()
	c.JSON(http.StatusOK, messageResponse{Message: "Person updated"})
}

// DELETE /person/:id
func (h *PersonHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.personUsecase.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrPersonNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Message: msgPersonNotFound})
			return
		}
		h.errs.internal(c, "delete person", err, "person_id", id)
		return
	}

	metrics.PersonMutationsTotal.WithLabelValues("delete").Inc()
	c.JSON(http.StatusOK, messageResponse{Message: "Person deleted"})
}

// bindPerson decodes and validates the body. On failure it has already
// written the 400 response.
func (h *PersonHandler) bindPerson(c *gin.Context) (domain.PersonFields, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPersonBodyBytes)

	doc, err := schema.Decode(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Message: msgBodyTooLarge})
			return domain.PersonFields{}, false
		}
		c.JSON(http.StatusBadRequest, errorResponse{Message: msgInvalidBody, Error: err.Error()})
		return domain.PersonFields{}, false
	}

	if violations := h.schema.Validate(doc); len(violations) > 0 {
		metrics.ValidationFailuresTotal.Inc()
		c.JSON(http.StatusBadRequest, errorResponse{Message: msgInvalidBody, Details: violations})
		return domain.PersonFields{}, false
	}

	return personFields(doc), true
}

// personFields assumes doc passed the person schema.
func personFields(doc map[string]any) domain.PersonFields {
	f := domain.PersonFields{
		Vorname:       doc[schema.FieldVorname].(string),
		Nachname:      doc[schema.FieldNachname].(string),
		Email:         doc[schema.FieldEmail].(string),
		Strasse:       optString(doc, schema.FieldStrasse),
		Ort:           optString(doc, schema.FieldOrt),
		Telefonnummer: optString(doc, schema.FieldTelefonnummer),
	}
	if v, ok := doc[schema.FieldPLZ]; ok {
		if plz, ok := schema.AsInt(v); ok {
			f.PLZ = &plz
		}
	}
	return f
}

func optString(doc map[string]any, key string) *string {
	s, ok := doc[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func parseID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	if idPattern.MatchString(raw) {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return id, true
		}
	}
	c.JSON(http.StatusBadRequest, errorResponse{Message: msgInvalidID})
	return 0, false
}
