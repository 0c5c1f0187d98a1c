package metrics

import "expvar"

var (
	SubmissionsInvalid   = expvar.NewInt("contact_submissions_invalid_total")
	SubmissionsSent      = expvar.NewInt("contact_submissions_sent_total")
	SubmissionsRejected  = expvar.NewInt("contact_submissions_rejected_total")
	SubmissionsFailed    = expvar.NewInt("contact_submissions_failed_total")
	SubmissionsInFlight  = expvar.NewInt("contact_submissions_in_flight")
	sessionsActive       = expvar.NewInt("visitor_sessions_active")
	featuresFailedToBoot = expvar.NewInt("features_failed_total")
)

// SetSessions records the number of live visitor sessions.
func SetSessions(n int) {
	sessionsActive.Set(int64(n))
}

// FeatureFailed counts a feature whose setup failed.
func FeatureFailed() {
	featuresFailedToBoot.Add(1)
}

// ResetForTests clears counters; intended for use in tests only.
func ResetForTests() {
	SubmissionsInvalid.Set(0)
	SubmissionsSent.Set(0)
	SubmissionsRejected.Set(0)
	SubmissionsFailed.Set(0)
	SubmissionsInFlight.Set(0)
	sessionsActive.Set(0)
	featuresFailedToBoot.Set(0)
}
