package model

// Options configures the behaviour of the Builder. Options are constructed by
// pkg/definition and passed into New.
type Options struct {
	Labeler func(string) string
	// Acronyms are upper-cased by the default labeler ("ifscCode" becomes
	// "IFSC Code").
	Acronyms []string
}

func defaultOptions() Options {
	return Options{
		Labeler: DefaultLabeler,
	}
}
