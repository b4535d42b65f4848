package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <string.h>
#include <espeak-ng/speak_lib.h>

static int
espeak_open(int voice_index)
{
	if (espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0) < 0)
	{ return -1; }

	const espeak_VOICE **voices = espeak_ListVoices(NULL);
	int n = 0;
	while (voices && voices[n]) { n++; }

	if (voice_index >= 0 && voice_index < n)
	{ return espeak_SetVoiceByName(voices[voice_index]->name); }

	return espeak_SetVoiceByName("en");
}

static int
espeak_say(const char *text, int rate, int volume)
{
	if (!text)
	{ return -1; }

	espeak_SetParameter(espeakRATE, rate, 0);
	espeak_SetParameter(espeakVOLUME, volume, 0);

	espeak_ERROR rc = espeak_Synth(text, strlen(text) + 1, 0, POS_CHARACTER, 0, espeakCHARS_AUTO, NULL, NULL);
	if (rc != EE_OK)
	{ return (int)rc; }

	return espeak_Synchronize();
}
*/
import "C"

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"echo/internal/speech"
)

// Espeak speaks through libespeak-ng. Calls are serialized; the library
// keeps global state.
type Espeak struct {
	mu sync.Mutex
}

// NewEspeak initializes the engine with the voice at voiceIndex in the
// installed voice list, falling back to English.
func NewEspeak(voiceIndex int) (*Espeak, error) {
	if rc := C.espeak_open(C.int(voiceIndex)); rc != 0 {
		return nil, fmt.Errorf("espeak init failed: %d", int(rc))
	}
	return &Espeak{}, nil
}

func (e *Espeak) Speak(ctx context.Context, text string, p speech.Prosody) error {
	if text == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))

	rc := C.espeak_say(ctext, C.int(p.Rate), C.int(volumePercent(p.Volume)))
	if rc != 0 {
		return fmt.Errorf("espeak_say failed: %d", int(rc))
	}

	return nil
}

func (e *Espeak) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if rc := C.espeak_Terminate(); rc != C.EE_OK {
		return fmt.Errorf("espeak terminate failed: %d", int(rc))
	}
	return nil
}

// espeak volume is 0-200 with 100 as normal
func volumePercent(v float64) int {
	return int(min(max(v, 0), 2) * 100)
}
