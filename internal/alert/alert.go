package alert

// Client delivers operational notifications to the operator: refresh-job
// failures, credential problems, anything a human should look at.
type Client interface {
	Notify(msg string)
}
