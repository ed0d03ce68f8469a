package domain

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
)

// MappingError scopes a failure to the field, condition or country it came from.
type MappingError struct {
	Field     string
	Condition string
	Country   string
	Message   string
}

func NewMappingError(msg string) *MappingError {
	return &MappingError{Message: msg}
}

func NewMappingErrorf(format string, args ...any) *MappingError {
	return &MappingError{Message: fmt.Sprintf(format, args...)}
}

func WrapMappingError(err error) *MappingError {
	if err == nil {
		return nil
	}
	if me, ok := err.(*MappingError); ok {
		return me
	}
	return &MappingError{Message: err.Error()}
}

func (e *MappingError) Error() string {
	path := []string{}
	if e.Field != "" {
		path = append(path, fmt.Sprintf("field '%s'", e.Field))
	}
	if e.Condition != "" {
		path = append(path, fmt.Sprintf("condition '%s'", e.Condition))
	}
	if e.Country != "" {
		path = append(path, fmt.Sprintf("country '%s'", e.Country))
	}
	if len(path) == 0 {
		return e.Message
	}
	return strings.Join(path, " -> ") + ": " + e.Message
}

func (e *MappingError) AddField(field string) *MappingError {
	e.Field = field
	return e
}

func (e *MappingError) AddCondition(conditionType string) *MappingError {
	e.Condition = conditionType
	return e
}

func (e *MappingError) AddCountry(country string) *MappingError {
	e.Country = country
	return e
}

func (e *MappingError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusUnprocessableEntity, e.Error()).
		AddMetaValue("field", e.Field).
		AddMetaValue("condition_type", e.Condition).
		AddMetaValue("country", e.Country)
}

func IsMappingError(err error) bool {
	_, ok := err.(*MappingError)
	return ok
}
