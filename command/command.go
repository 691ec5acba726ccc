package command

import "strings"

const searchPhrase = "search for"

// Rule matches when the transcript contains any of its phrases.
type Rule struct {
	Name    string
	Phrases []string
	Build   func(transcript string) Action
}

func (r Rule) matches(transcript string) bool {
	for _, phrase := range r.Phrases {
		if strings.Contains(transcript, phrase) {
			return true
		}
	}

	return false
}

// DefaultRules is checked in order and the first match wins, so
// "search for how to shut down" is a search.
var DefaultRules = []Rule{
	{
		Name:    "open_application",
		Phrases: []string{"open notepad"},
		Build:   func(string) Action { return OpenApplication{} },
	},
	{
		Name:    "report_time",
		Phrases: []string{"what time is it"},
		Build:   func(string) Action { return ReportTime{} },
	},
	{
		Name:    "web_search",
		Phrases: []string{searchPhrase},
		Build: func(transcript string) Action {
			query := strings.ReplaceAll(transcript, searchPhrase, "")

			return WebSearch{Query: strings.TrimSpace(query)}
		},
	},
	{
		Name:    "exit_active_mode",
		Phrases: []string{"stand down", "go to standby"},
		Build:   func(string) Action { return ExitActiveMode{} },
	},
	{
		Name:    "shutdown_system",
		Phrases: []string{"shut down", "go to sleep"},
		Build:   func(string) Action { return ShutdownSystem{} },
	},
}

type interpreterImpl struct {
	rules []Rule
}

// New returns an interpreter over rules. Transcripts no rule matches become
// DelegateToAI.
func New(rules []Rule) Interface {
	return &interpreterImpl{
		rules: rules,
	}
}

func (i *interpreterImpl) Interpret(transcript string) Action {
	for _, rule := range i.rules {
		if rule.matches(transcript) {
			return rule.Build(transcript)
		}
	}

	return DelegateToAI{Prompt: transcript}
}
