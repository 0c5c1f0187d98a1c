package form

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/page"
)

const contactMarkup = `
<section id="contact">
  <form id="contactForm" hx-post="/contact" novalidate>
    <input type="hidden" name="access_key" value="k">
    <div class="form-group">
      <input class="form-control {{$f.Marker}}" type="text" id="name" name="name" value="{{$f.Value}}" required>
    </div>
    <div class="form-group">
      <input class="form-control" type="email" id="email" name="email" required>
    </div>
    <div class="form-group">
      <input class="form-control" type="text" id="company" name="company">
    </div>
    <div class="form-group">
      <textarea class="form-control" id="message" name="message" required></textarea>
    </div>
    <button type="submit" class="btn" data-label="Send Message" {{if .Disabled}}disabled{{end}}>{{.Label}}</button>
  </form>
</section>`

func parseContact(t *testing.T) *Layout {
	t.Helper()
	layout, err := ParseLayout(strings.NewReader(contactMarkup), ContactFormID, ContactFields...)
	require.NoError(t, err)
	return layout
}

func TestParseLayout(t *testing.T) {
	layout := parseContact(t)

	want := []FieldSpec{
		{Name: "name", ID: "name", Type: "text", Kind: KindText, Required: true},
		{Name: "email", ID: "email", Type: "email", Kind: KindEmail, Required: true},
		{Name: "company", ID: "company", Type: "text", Kind: KindText},
		{Name: "message", ID: "message", Type: "textarea", Kind: KindMessage, Required: true},
	}
	if diff := cmp.Diff(want, layout.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "/contact", layout.Action)
	assert.Equal(t, "Send Message", layout.SubmitLabel)
}

func TestParseLayoutMissingElements(t *testing.T) {
	_, err := ParseLayout(strings.NewReader(`<div>no form here</div>`), ContactFormID, ContactFields...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrElementMissing))
	assert.Contains(t, err.Error(), "form#contactForm")

	noEmail := strings.Replace(contactMarkup, `name="email"`, `name="mail"`, 1)
	_, err = ParseLayout(strings.NewReader(noEmail), ContactFormID, ContactFields...)
	assert.ErrorIs(t, err, ErrElementMissing)
	assert.Contains(t, err.Error(), `"email"`)

	noButton := strings.Replace(contactMarkup, `type="submit"`, `type="button"`, 1)
	_, err = ParseLayout(strings.NewReader(noButton), ContactFormID, ContactFields...)
	assert.ErrorIs(t, err, ErrElementMissing)
	assert.Contains(t, err.Error(), "submit button")
}

func TestFormValidateAllMarksEveryRequiredField(t *testing.T) {
	head := page.NewHead()
	f := parseContact(t).NewForm(head)
	f.Load(url.Values{"name": {""}, "email": {"bad"}, "message": {"hello there friend"}})

	assert.False(t, f.ValidateAll())

	v := f.View()
	assert.Equal(t, MarkerError, v.Field("name").Marker)
	assert.Equal(t, "This field is required", v.Field("name").ErrorText)
	assert.Equal(t, MarkerError, v.Field("email").Marker)
	assert.Equal(t, MarkerValid, v.Field("message").Marker)
	assert.Equal(t, MarkerNone, v.Field("company").Marker, "optional fields are not validated")
	assert.True(t, head.HasStyle(page.FieldErrorStylesID))
}

func TestFormMarkersReplacedAndCleared(t *testing.T) {
	f := parseContact(t).NewForm(nil)

	f.SetValue("email", "nope")
	res, ok := f.ValidateField("email")
	require.True(t, ok)
	assert.Equal(t, ReasonInvalidEmail, res.Reason)

	f.SetValue("email", "a@b.com")
	assert.Equal(t, MarkerNone, f.View().Field("email").Marker, "editing clears the error marker")

	res, _ = f.ValidateField("email")
	assert.True(t, res.Valid)
	assert.Equal(t, MarkerValid, f.View().Field("email").Marker)

	_, ok = f.ValidateField("phone")
	assert.False(t, ok)

	f.SetValue("name", "")
	f.ValidateAll()
	f.ClearErrors()
	for _, field := range f.View().Fields {
		assert.NotEqual(t, MarkerError, field.Marker, field.Name)
		assert.Empty(t, field.ErrorText)
	}

	f.Reset()
	for _, field := range f.View().Fields {
		assert.Empty(t, field.Value)
		assert.Equal(t, MarkerNone, field.Marker)
	}
}

func TestSubmitControlSerializesSubmissions(t *testing.T) {
	f := parseContact(t).NewForm(nil)

	require.True(t, f.BeginSubmit("Sending..."))
	assert.Equal(t, SubmitControl{Label: "Sending...", OriginalLabel: "Send Message", Disabled: true}, f.Submit())
	assert.False(t, f.BeginSubmit("Sending..."), "second gesture is inert while in flight")

	f.EndSubmit()
	assert.Equal(t, SubmitControl{Label: "Send Message", OriginalLabel: "Send Message"}, f.Submit())
}
