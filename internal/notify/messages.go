package notify

import "fmt"

// Every sentence a visitor can see about a submission lives here.
const (
	MsgFixErrors       = "Please fix the errors in the form before submitting."
	MsgMissingFields   = "Please fill in all required fields."
	MsgInvalidEmail    = "Please enter a valid email address."
	MsgMessageTooShort = "Message should be at least 10 characters long."

	MsgGenericFailure = "Sorry, there was an error sending your message. Please try again later."
	MsgNetworkFailure = "Network error: Please check your internet connection and try again."
	MsgServerFailure  = "Server error: Please try again in a few moments."
	MsgUnavailable    = "The contact form is temporarily unavailable. Please try again later."
)

// SuccessMessage thanks the submitter by name.
func SuccessMessage(name string) string {
	return fmt.Sprintf("Thank you, %s! Your message has been sent successfully. I'll get back to you soon!", name)
}
