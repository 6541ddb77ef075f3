package http

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return entity.ValidRole(fl.Field().String())
	})
	return v
}

// bindJSON decodifica el body y aplica las reglas `validate`. Ya escribe la respuesta 400 si falla;
// el handler solo debe retornar cuando ok es false.
func bindJSON(c *fiber.Ctx, dst any) (ok bool, err error) {
	if err := c.BodyParser(dst); err != nil {
		return false, respond(c, fiber.StatusBadRequest, CodeValidation, "cuerpo inválido")
	}
	if err := validate.Struct(dst); err != nil {
		return false, respond(c, fiber.StatusBadRequest, CodeValidation, validationMessage(err))
	}
	return true, nil
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fieldPath(fe)+": "+ruleMessage(fe))
	}
	return strings.Join(parts, "; ")
}

// fieldPath quita el nombre del struct raíz: "CreateSaleRequest.items[0].quantity" -> "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "requerido"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("mínimo %s caracteres", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("mínimo %s elementos", fe.Param())
		}
		return "mínimo " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("máximo %s caracteres", fe.Param())
		}
		return "máximo " + fe.Param()
	case "email":
		return "email inválido"
	case "url":
		return "URL inválida"
	case "uuid":
		return "UUID inválido"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "role":
		return "rol inválido"
	default:
		return "inválido (" + fe.Tag() + ")"
	}
}

// parsePage lee limit/offset del query string.
func parsePage(c *fiber.Ctx) (dto.PageRequest, bool, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, false, respond(c, fiber.StatusBadRequest, CodeValidation, "limit y offset deben ser enteros")
	}
	if err := validate.Struct(page); err != nil {
		return page, false, respond(c, fiber.StatusBadRequest, CodeValidation, validationMessage(err))
	}
	page.DefaultPage()
	return page, true, nil
}

// parseDateRange lee from/to (RFC3339 o YYYY-MM-DD). Un "to" con solo fecha incluye el día completo.
func parseDateRange(c *fiber.Ctx) (dto.DateRange, bool, error) {
	var rng dto.DateRange
	from, err := parseDate(c.Query("from"), false)
	if err != nil {
		return rng, false, respond(c, fiber.StatusBadRequest, CodeValidation, "from: "+err.Error())
	}
	to, err := parseDate(c.Query("to"), true)
	if err != nil {
		return rng, false, respond(c, fiber.StatusBadRequest, CodeValidation, "to: "+err.Error())
	}
	if from != nil && to != nil && to.Before(*from) {
		return rng, false, respond(c, fiber.StatusBadRequest, CodeValidation, "to debe ser posterior a from")
	}
	rng.From, rng.To = from, to
	return rng, true, nil
}

func parseDate(s string, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida, use RFC3339 o YYYY-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
