package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ResumeData is the structured résumé consumed by the LaTeX generator.
// Every field except Name may be empty; Normalize fills nil slices so the
// generator never needs nil checks.
type ResumeData struct {
	Name           Text            `json:"name" validate:"notblank"`
	Phone          Text            `json:"phone"`
	Email          Text            `json:"email"`
	LinkedIn       Text            `json:"linkedin"`
	GitHub         Text            `json:"github"`
	Summary        Text            `json:"summary"`
	Skills         SkillSet        `json:"skills"`
	Experience     []Experience    `json:"experience"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
	Education      []Education     `json:"education"`
}

// SkillSet holds the four fixed skill categories. Unknown categories in the
// input are ignored by decoding.
type SkillSet struct {
	Languages Text `json:"languages"`
	Tools     Text `json:"tools"`
	Web       Text `json:"web"`
	DevOps    Text `json:"devops"`
}

// Experience is one work entry, kept in display order.
type Experience struct {
	Role     Text       `json:"role"`
	Company  Text       `json:"company"`
	Dates    Text       `json:"dates"`
	Location Text       `json:"location"`
	Points   StringList `json:"points"`
}

// Project is one project entry. LiveLink is optional and adds a second link when set.
type Project struct {
	Name           Text       `json:"name"`
	RepositoryLink Text       `json:"github"`
	LiveLink       Text       `json:"live,omitempty"`
	Points         StringList `json:"points"`
}

// Certification is one course or certification line.
type Certification struct {
	Title        Text `json:"title"`
	Organization Text `json:"org"`
	Date         Text `json:"date"`
	Link         Text `json:"link,omitempty"`
}

// Education is one education entry.
type Education struct {
	Institution Text `json:"institution"`
	Duration    Text `json:"duration"`
	Degree      Text `json:"degree"`
	Grade       Text `json:"grade"`
}

// UnmarshalJSON implements json.Unmarshaler. Section lists tolerate the wrong
// shape: a single object becomes a one-entry list and any other non-array value
// an empty one.
func (r *ResumeData) UnmarshalJSON(data []byte) error {
	type plain ResumeData
	aux := struct {
		*plain
		Experience     json.RawMessage `json:"experience"`
		Projects       json.RawMessage `json:"projects"`
		Certifications json.RawMessage `json:"certifications"`
		Education      json.RawMessage `json:"education"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Experience = decodeEntries[Experience](aux.Experience)
	r.Projects = decodeEntries[Project](aux.Projects)
	r.Certifications = decodeEntries[Certification](aux.Certifications)
	r.Education = decodeEntries[Education](aux.Education)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. A non-object leaves every category empty.
func (s *SkillSet) UnmarshalJSON(data []byte) error {
	type plain SkillSet
	*s = SkillSet{}
	decodeObject(data, (*plain)(s))
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. A non-object decodes to an empty entry.
func (e *Experience) UnmarshalJSON(data []byte) error {
	type plain Experience
	*e = Experience{}
	decodeObject(data, (*plain)(e))
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. A non-object decodes to an empty entry.
func (p *Project) UnmarshalJSON(data []byte) error {
	type plain Project
	*p = Project{}
	decodeObject(data, (*plain)(p))
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. A non-object decodes to an empty entry.
func (c *Certification) UnmarshalJSON(data []byte) error {
	type plain Certification
	*c = Certification{}
	decodeObject(data, (*plain)(c))
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. A non-object decodes to an empty entry.
func (e *Education) UnmarshalJSON(data []byte) error {
	type plain Education
	*e = Education{}
	decodeObject(data, (*plain)(e))
	return nil
}

// decodeObject fills dst from data when data is a JSON object and leaves it
// untouched otherwise. Leaf fields are tolerant, so decoding an object only
// stops early on malformed JSON.
func decodeObject(data []byte, dst any) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return
	}
	_ = json.Unmarshal(trimmed, dst)
}

// decodeEntries decodes a section list. Absent and null stay nil, an array keeps
// one entry per element, an object becomes a single entry and anything else an
// empty list.
func decodeEntries[T any](raw json.RawMessage) []T {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return []T{}
		}
		out := make([]T, len(elems))
		for i, elem := range elems {
			_ = json.Unmarshal(elem, &out[i])
		}
		return out
	case '{':
		out := make([]T, 1)
		_ = json.Unmarshal(trimmed, &out[0])
		return out
	default:
		return []T{}
	}
}

// FieldError reports a required field that is missing from a request.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// Report JSON names so messages match what the caller sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the fields that generation cannot proceed without.
// Only the name is mandatory and it must not be blank; every other field is permissive.
func (r *ResumeData) Validate() error {
	if r == nil {
		return &FieldError{Field: "name", Message: "is required"}
	}

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &FieldError{
			Field:   verrs[0].Field(),
			Message: tagMessage(verrs[0].Tag()),
		}
	}
	return err
}

func tagMessage(tag string) string {
	switch tag {
	case "required", "notblank":
		return "is required"
	default:
		return "is " + tag
	}
}

// Normalize replaces nil slices with empty ones, including nested point lists.
// Order is never changed.
func (r *ResumeData) Normalize() {
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	for i := range r.Experience {
		if r.Experience[i].Points == nil {
			r.Experience[i].Points = StringList{}
		}
	}

	if r.Projects == nil {
		r.Projects = []Project{}
	}
	for i := range r.Projects {
		if r.Projects[i].Points == nil {
			r.Projects[i].Points = StringList{}
		}
	}

	if r.Certifications == nil {
		r.Certifications = []Certification{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
}

// Clone returns a deep copy so callers can normalize without touching the input.
func (r *ResumeData) Clone() *ResumeData {
	if r == nil {
		return nil
	}
	out := *r
	out.Experience = make([]Experience, len(r.Experience))
	for i, exp := range r.Experience {
		exp.Points = append(StringList(nil), exp.Points...)
		out.Experience[i] = exp
	}
	out.Projects = make([]Project, len(r.Projects))
	for i, p := range r.Projects {
		p.Points = append(StringList(nil), p.Points...)
		out.Projects[i] = p
	}
	out.Certifications = append([]Certification(nil), r.Certifications...)
	out.Education = append([]Education(nil), r.Education...)
	return &out
}
