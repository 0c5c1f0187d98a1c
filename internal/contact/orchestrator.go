package contact

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/form"
	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/notify"
	"github.com/Zachkp/portfolio/internal/relay"
)

// ErrInFlight is returned when a submit gesture arrives while the previous
// submission of the same form is still running.
var ErrInFlight = errors.New("contact: submission already in flight")

const LoadingLabel = "Sending..."

// Submitter delivers a payload to the form relay.
type Submitter interface {
	Submit(ctx context.Context, p relay.Payload) relay.Outcome
}

// Presenter shows banners to the visitor who submitted.
type Presenter interface {
	Show(level notify.Level, message string) notify.Banner
	Present(out relay.Outcome) notify.Banner
}

// Recorder is told about every submission that reached the relay.
type Recorder interface {
	RecordSubmission(ctx context.Context, p relay.Payload, out relay.Outcome)
}

// Stage is how far a submission got.
type Stage int

const (
	// StageInvalid: a field failed its rule; nothing was sent.
	StageInvalid Stage = iota
	// StageRejected: the submission check failed; nothing was sent.
	StageRejected
	// StageSent: the relay was called once.
	StageSent
)

type Result struct {
	Stage   Stage
	Outcome relay.Outcome
	Banner  notify.Banner
}

// Submission is the trimmed triple re-checked before anything is sent.
type Submission struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,contact_email"`
	Message string `validate:"required,min=10"`
}

type Settings struct {
	AccessKey string
	FromName  string
}

type Orchestrator struct {
	sender   Submitter
	validate *validator.Validate
	settings Settings
	recorder Recorder
	log      *zap.Logger
}

// NewValidator returns a validator that knows the contact_email rule.
func NewValidator() (*validator.Validate, error) {
	v := validator.New()
	err := v.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		return form.IsValidEmail(fl.Field().String())
	})
	if err != nil {
		return nil, fmt.Errorf("register contact_email: %w", err)
	}
	return v, nil
}

func New(sender Submitter, settings Settings, recorder Recorder, log *zap.Logger) (*Orchestrator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	v, err := NewValidator()
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		sender:   sender,
		validate: v,
		settings: settings,
		recorder: recorder,
		log:      log,
	}, nil
}

// Submit runs one submit gesture against f and reports the result to p.
// values, when non-nil, replace the form's field values. The submit control
// is claimed before anything is loaded or validated, so a gesture arriving
// while another is in flight returns ErrInFlight and leaves f and p
// untouched. The control is re-enabled on every exit path.
func (o *Orchestrator) Submit(ctx context.Context, f *form.Form, values url.Values, p Presenter) (Result, error) {
	if !f.BeginSubmit(LoadingLabel) {
		return Result{}, ErrInFlight
	}
	defer f.EndSubmit()
	if values != nil {
		f.Load(values)
	}

	if failed := f.ValidateRequired(); len(failed) > 0 {
		metrics.SubmissionsInvalid.Add(1)
		return Result{Stage: StageInvalid, Banner: p.Show(notify.LevelError, summarize(failed))}, nil
	}

	sub := Submission{
		Name:    f.Trimmed("name"),
		Email:   f.Trimmed("email"),
		Message: f.Trimmed("message"),
	}
	if msg := o.check(sub); msg != "" {
		metrics.SubmissionsInvalid.Add(1)
		return Result{Stage: StageRejected, Banner: p.Show(notify.LevelError, msg)}, nil
	}

	metrics.SubmissionsInFlight.Add(1)
	defer metrics.SubmissionsInFlight.Add(-1)

	payload := relay.Payload{
		Name:      sub.Name,
		Email:     sub.Email,
		Message:   sub.Message,
		AccessKey: o.settings.AccessKey,
		Subject:   fmt.Sprintf("New Contact Form Submission from %s", sub.Name),
		FromName:  o.settings.FromName,
	}

	// A visitor leaving the page does not abort the relay call.
	out := o.sender.Submit(context.WithoutCancel(ctx), payload)
	o.log.Info("contact submission finished", zap.Stringer("outcome", out))

	switch out.Kind {
	case relay.Success:
		metrics.SubmissionsSent.Add(1)
		f.Reset()
	case relay.ApplicationFailure:
		metrics.SubmissionsRejected.Add(1)
	default:
		metrics.SubmissionsFailed.Add(1)
	}
	if o.recorder != nil {
		o.recorder.RecordSubmission(ctx, payload, out)
	}
	return Result{Stage: StageSent, Outcome: out, Banner: p.Present(out)}, nil
}

// check re-validates the trimmed triple and returns the notification for
// the first problem, or "" when it passes.
func (o *Orchestrator) check(sub Submission) string {
	err := o.validate.Struct(sub)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		o.log.Error("submission check failed", zap.Error(err))
		return notify.MsgGenericFailure
	}

	msg := ""
	for _, fe := range verrs {
		switch {
		case fe.Tag() == "required":
			return notify.MsgMissingFields
		case fe.Field() == "Email" && msg == "":
			msg = notify.MsgInvalidEmail
		case fe.Field() == "Message" && msg == "":
			msg = notify.MsgMessageTooShort
		}
	}
	if msg == "" {
		msg = notify.MsgGenericFailure
	}
	return msg
}

// summarize picks the banner for a failed field pass. A single kind of
// problem gets its specific sentence; mixed problems get the generic one
// and the inline messages carry the detail.
func summarize(failed []form.Result) string {
	reason := failed[0].Reason
	for _, r := range failed[1:] {
		if r.Reason != reason {
			return notify.MsgFixErrors
		}
	}
	switch reason {
	case form.ReasonRequired:
		return notify.MsgMissingFields
	case form.ReasonInvalidEmail:
		return notify.MsgInvalidEmail
	case form.ReasonTooShort:
		return notify.MsgMessageTooShort
	default:
		return notify.MsgFixErrors
	}
}
