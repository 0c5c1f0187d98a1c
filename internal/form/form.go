package form

import (
	"net/url"
	"sync"

	"github.com/Zachkp/portfolio/internal/page"
)

// Marker is the presentation-only validation state of a field.
type Marker string

const (
	MarkerNone  Marker = ""
	MarkerError Marker = "error"
	MarkerValid Marker = "valid"
)

// Field is one input of the contact form and its current presentation state.
type Field struct {
	Name     string
	ID       string
	Type     string
	Kind     Kind
	Required bool

	Value     string
	Marker    Marker
	ErrorText string
}

// SubmitControl is the form's submit button.
type SubmitControl struct {
	Label         string
	OriginalLabel string
	Disabled      bool
}

// Form is the per-visitor view-model of the contact form. It is safe for
// concurrent use; every request from a visitor shares one Form.
type Form struct {
	ID     string
	Action string

	mu     sync.Mutex
	fields []*Field
	submit SubmitControl
	head   *page.Head
}

// View is an immutable snapshot used for rendering.
type View struct {
	ID     string
	Action string
	Fields []Field
	Submit SubmitControl
}

// Field returns the named field of the snapshot, or a zero Field.
func (v View) Field(name string) Field {
	for _, f := range v.Fields {
		if f.Name == name {
			return f
		}
	}
	return Field{Name: name}
}

func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := View{ID: f.ID, Action: f.Action, Submit: f.submit}
	for _, field := range f.fields {
		v.Fields = append(v.Fields, *field)
	}
	return v
}

func (f *Form) lookup(name string) *Field {
	for _, field := range f.fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

// Value returns the raw value of the named field.
func (f *Form) Value(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if field := f.lookup(name); field != nil {
		return field.Value
	}
	return ""
}

// SetValue records an edit. Editing a field clears its error marker.
func (f *Form) SetValue(name, value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	field := f.lookup(name)
	if field == nil {
		return false
	}
	field.Value = value
	if field.Marker == MarkerError {
		field.Marker = MarkerNone
		field.ErrorText = ""
	}
	return true
}

// Load copies posted values into the known fields. Unknown keys are ignored.
func (f *Form) Load(values url.Values) {
	for _, name := range f.Names() {
		f.SetValue(name, values.Get(name))
	}
}

// Names lists the field names in document order.
func (f *Form) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.fields))
	for _, field := range f.fields {
		names = append(names, field.Name)
	}
	return names
}

// ValidateField validates one field and replaces its marker with the verdict.
func (f *Form) ValidateField(name string) (Result, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	field := f.lookup(name)
	if field == nil {
		return Result{Field: name}, false
	}
	return f.apply(field), true
}

func (f *Form) apply(field *Field) Result {
	res := Validate(*field)
	if res.Valid {
		field.Marker = MarkerValid
		field.ErrorText = ""
		return res
	}
	field.Marker = MarkerError
	field.ErrorText = res.Reason.Message()
	if f.head != nil {
		f.head.InjectStyle(page.FieldErrorStylesID, page.FieldErrorCSS)
	}
	return res
}

// ValidateAll validates every required field, marking each one, and
// reports whether all passed.
func (f *Form) ValidateAll() bool {
	return len(f.ValidateRequired()) == 0
}

// ValidateRequired validates every required field, marking each one, and
// returns the failures in form order.
func (f *Form) ValidateRequired() []Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	var failed []Result
	for _, field := range f.fields {
		if !field.Required {
			continue
		}
		if res := f.apply(field); !res.Valid {
			failed = append(failed, res)
		}
	}
	return failed
}

// ClearErrors removes every error marker and inline message.
func (f *Form) ClearErrors() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, field := range f.fields {
		if field.Marker == MarkerError {
			field.Marker = MarkerNone
		}
		field.ErrorText = ""
	}
}

// Reset empties every field and drops all markers.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, field := range f.fields {
		field.Value = ""
		field.Marker = MarkerNone
		field.ErrorText = ""
	}
}

// Trimmed returns the whitespace-trimmed value of the named field.
func (f *Form) Trimmed(name string) string {
	return TrimSpace(f.Value(name))
}

// BeginSubmit disables the submit control and swaps in the loading label.
// It returns false when a submission is already in flight.
func (f *Form) BeginSubmit(loadingLabel string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submit.Disabled {
		return false
	}
	f.submit.Disabled = true
	f.submit.Label = loadingLabel
	return true
}

// EndSubmit re-enables the control and restores its original label.
func (f *Form) EndSubmit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submit.Disabled = false
	f.submit.Label = f.submit.OriginalLabel
}

func (f *Form) Submit() SubmitControl {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submit
}
