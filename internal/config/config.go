package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"
	"time"
)

// ErrConfig marks a settings file that could not be read or parsed.
// Callers still receive usable defaults alongside it.
var ErrConfig = errors.New("config")

// EnvWeatherKey overrides weather_api_key when set.
const EnvWeatherKey = "ECHO_WEATHER_API_KEY"

type Settings struct {
	Name           string   `json:"name"`
	SpeechRate     int      `json:"speech_rate"`
	VoiceID        int      `json:"voice_id"`
	Hotword        string   `json:"hotword"`
	WakeResponses  []string `json:"wake_responses"`
	WeatherAPIKey  string   `json:"weather_api_key"`
	MaxHistory     int      `json:"max_history"`
	ListenTimeout  int      `json:"listen_timeout,omitempty"`  // seconds
	CommandTimeout int      `json:"command_timeout,omitempty"` // seconds
	Editor         string   `json:"editor,omitempty"`
}

func Defaults() Settings {
	return Settings{
		Name:           "User",
		SpeechRate:     170,
		VoiceID:        0,
		Hotword:        "echo",
		WakeResponses:  defaultWakeResponses(),
		MaxHistory:     100,
		ListenTimeout:  5,
		CommandTimeout: 10,
		Editor:         defaultEditor(),
	}
}

func defaultWakeResponses() []string {
	return []string{"Yes?", "I'm here!", "How can I assist?"}
}

func defaultEditor() string {
	switch runtime.GOOS {
	case "windows":
		return "notepad.exe"
	case "darwin":
		return "open -a TextEdit"
	default:
		return "gedit"
	}
}

// Load reads settings from path. A missing file is created with defaults.
// On a malformed file the defaults are returned together with an error
// wrapping ErrConfig, and the file is left untouched.
func Load(path string) (Settings, error) {
	s := Defaults()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := Save(path, s); err != nil {
			return s, err
		}
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("%w: read %s: %w", ErrConfig, path, err)
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return Defaults(), fmt.Errorf("%w: parse %s: %w", ErrConfig, path, err)
	}

	s.Normalize()
	return s, nil
}

// Save writes settings as indented JSON.
func Save(path string, s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrConfig, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrConfig, path, err)
	}
	return nil
}

// Normalize restores the invariants a hand-edited file may break.
func (s *Settings) Normalize() {
	d := Defaults()

	s.Hotword = strings.ToLower(strings.TrimSpace(s.Hotword))
	if s.Hotword == "" {
		s.Hotword = d.Hotword
	}

	responses := s.WakeResponses[:0:0]
	for _, r := range s.WakeResponses {
		if strings.TrimSpace(r) != "" {
			responses = append(responses, r)
		}
	}
	if len(responses) == 0 {
		responses = defaultWakeResponses()
	}
	s.WakeResponses = responses

	if s.MaxHistory <= 0 {
		s.MaxHistory = d.MaxHistory
	}
	if s.SpeechRate <= 0 {
		s.SpeechRate = d.SpeechRate
	}
	if s.ListenTimeout <= 0 {
		s.ListenTimeout = d.ListenTimeout
	}
	if s.CommandTimeout <= 0 {
		s.CommandTimeout = d.CommandTimeout
	}
	if strings.TrimSpace(s.Editor) == "" {
		s.Editor = d.Editor
	}
}

// ApplyEnv lets secrets come from the environment (or a .env file loaded
// beforehand) instead of the JSON file.
func (s *Settings) ApplyEnv() {
	if key := strings.TrimSpace(os.Getenv(EnvWeatherKey)); key != "" {
		s.WeatherAPIKey = key
	}
}

func (s Settings) ListenWait() time.Duration {
	return time.Duration(s.ListenTimeout) * time.Second
}

func (s Settings) CommandWait() time.Duration {
	return time.Duration(s.CommandTimeout) * time.Second
}
