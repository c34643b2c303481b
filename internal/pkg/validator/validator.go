package validator

import (
	stderrors "errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/itinerary-microservice/internal/pkg/errors"
)

var validate *validator.Validate

var clockTimeRe = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

func init() {
	validate = validator.New()

	// В деталях ошибок используем имена полей из json тегов
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// clocktime - время в 24-часовом формате "HH:MM"
	_ = validate.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
		return clockTimeRe.MatchString(fl.Field().String())
	})
}

// Validate - валидация структуры; ошибки тегов превращаются в INVALID_REQUEST с деталями по полям
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.ErrInvalidRequest.Wrap(err)
	}

	details := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		details[fieldPath(fe)] = fe.Tag()
	}
	return errors.ErrInvalidRequest.WithDetails(details)
}

// fieldPath отбрасывает имя корневой структуры: "Req.region.center.lat" -> "region.center.lat"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
