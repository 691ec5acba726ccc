package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"jarvis-assistant/clients/ai_bot"
	"jarvis-assistant/command"
	"jarvis-assistant/events"
)

const (
	phraseOpenApplication = "Certainly. Opening Notepad for you."
	phraseTime            = "The current time is %s."
	phraseSearch          = "Right away. Searching for %s."
	phraseExit            = "Understood. Returning to standby mode."
	phraseShutdown        = "Deactivating all systems. Goodbye, sir."
	phraseOffline         = "I'm sorry, I don't recognize that command and my AI core is offline."
	phraseApology         = "My apologies. I'm encountering an issue with my cognitive matrix: %v"

	timeLayout = "03:04 PM"
)

// execute carries out one action. Every branch speaks exactly once.
func (a *assistantImpl) execute(ctx context.Context, action command.Action) {
	a.logger.Debug("executing action", "action", fmt.Sprintf("%T", action))

	switch act := action.(type) {
	case command.OpenApplication:
		a.speak(phraseOpenApplication)

		err := a.launcher.OpenApplication()
		if err != nil {
			a.logger.Debug("open application failed", "err", err)
		}
	case command.ReportTime:
		a.speak(fmt.Sprintf(phraseTime, a.now().Format(timeLayout)))
	case command.WebSearch:
		a.speak(fmt.Sprintf(phraseSearch, act.Query))

		err := a.launcher.OpenURL(a.searchURL + url.QueryEscape(act.Query))
		if err != nil {
			a.logger.Debug("open search failed", "err", err)
		}
	case command.ExitActiveMode:
		a.speak(phraseExit)
		a.setMode(ModeStandby)
	case command.ShutdownSystem:
		if !a.running.Load() {
			return
		}

		a.speak(phraseShutdown)
		a.Stop()
	case command.DelegateToAI:
		a.delegate(ctx, act.Prompt)
	default:
		a.logger.Warn("unknown action", "action", fmt.Sprintf("%T", action))
	}
}

func (a *assistantImpl) delegate(ctx context.Context, prompt string) {
	if a.aiBot == nil {
		a.speak(phraseOffline)

		return
	}

	a.events.Status(statusThinking)
	a.events.Visual(events.VisualSpeaking)

	ctx, cancel := context.WithTimeout(ctx, a.generationTimeout)
	defer cancel()

	reply, err := a.aiBot.SendPrompt(ctx, prompt)
	if err != nil {
		a.logger.Warn("generation failed", "err", err)

		var genErr *ai_bot.GenerationError
		if errors.As(err, &genErr) {
			a.speak(fmt.Sprintf(phraseApology, genErr.Detail))
		} else {
			a.speak(fmt.Sprintf(phraseApology, err))
		}

		return
	}

	a.speak(reply)
}
