package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"echo/internal/history"
	"echo/internal/nlu"
	"echo/internal/weather"
)

const (
	searchURL = "https://www.google.com/search?q="
	homeURL   = "https://www.google.com"
)

func (a *Assistant) handleSearch(_ context.Context, u string) Outcome {
	query := nlu.SearchQuery(u)
	if query == "" {
		return spoken("What would you like me to search for?")
	}

	if err := a.launcher.OpenURL(searchURL + url.QueryEscape(query)); err != nil {
		return failed(LaunchFault, err, "I couldn't open the web search.")
	}

	return withEffect("Searching for "+query, "open web search for "+query)
}

func (a *Assistant) handleTime(_ context.Context, _ string) Outcome {
	return spoken("The current time is " + a.now().Format("03:04 PM"))
}

func (a *Assistant) handleWeather(ctx context.Context, u string) Outcome {
	location := nlu.WeatherLocation(u)

	if a.settings.WeatherAPIKey == "" || a.weather == nil {
		return spoken("Weather API key not configured.")
	}

	rep, err := a.weather.Current(ctx, location)

	var se *weather.StatusError
	switch {
	case errors.As(err, &se):
		return failed(NetworkFault, err, fmt.Sprintf("Sorry, I couldn't get the weather for %s.", location))
	case err != nil:
		return failed(NetworkFault, err, "I couldn't retrieve the weather information.")
	}

	return spoken(fmt.Sprintf("The weather in %s is %s with a temperature of %s degrees Celsius.",
		location, rep.Condition, strconv.FormatFloat(rep.TempC, 'f', 1, 64)))
}

func (a *Assistant) handleOpen(ctx context.Context, u string) Outcome {
	const apology = "I couldn't open that application."

	switch {
	case nlu.Mentions(u, "browser"):
		if err := a.launcher.OpenURL(homeURL); err != nil {
			return failed(LaunchFault, err, apology)
		}
		return withEffect("Opening web browser", "open browser at "+homeURL)
	case nlu.Mentions(u, "notepad"):
		if err := a.launcher.OpenEditor(ctx); err != nil {
			return failed(LaunchFault, err, apology)
		}
		return withEffect("Opening Notepad", "run local editor")
	default:
		return spoken("I can only open browser or notepad at the moment.")
	}
}

func (a *Assistant) handleExit(_ context.Context, _ string) Outcome {
	out := spoken("Goodbye!")
	out.Emotion = history.Happy
	out.Terminate = true
	return out
}

func (a *Assistant) handleUnknown(_ context.Context, _ string) Outcome {
	return spoken("I'm not sure how to handle that command.")
}
