package command

type Interface interface {
	// Interpret maps a lowercase transcript to exactly one action. It never
	// fails: anything unrecognized is delegated to the language model.
	Interpret(transcript string) Action
}

// Action is what the assistant should do with a transcript. The set of
// implementations is closed.
type Action interface {
	action()
}

type OpenApplication struct{}

type ReportTime struct{}

type WebSearch struct {
	// Query may be empty.
	Query string
}

type ExitActiveMode struct{}

type ShutdownSystem struct{}

type DelegateToAI struct {
	Prompt string
}

func (OpenApplication) action() {}
func (ReportTime) action()      {}
func (WebSearch) action()       {}
func (ExitActiveMode) action()  {}
func (ShutdownSystem) action()  {}
func (DelegateToAI) action()    {}
