package tts

// Voice identifies one of the OpenAI-backed voices offered by the backend's
// voiced synthesis route. The PlayHT route has a single server-chosen voice
// and ignores this value.
type Voice string

const (
	VoiceAlloy   Voice = "alloy"
	VoiceAsh     Voice = "ash"
	VoiceCoral   Voice = "coral"
	VoiceEcho    Voice = "echo"
	VoiceFable   Voice = "fable"
	VoiceOnyx    Voice = "onyx"
	VoiceNova    Voice = "nova"
	VoiceSage    Voice = "sage"
	VoiceShimmer Voice = "shimmer"
)

// DefaultVoice is used when no voice has been configured.
const DefaultVoice = VoiceAlloy

// Voices lists every selectable voice in display order.
var Voices = []Voice{
	VoiceAlloy, VoiceAsh, VoiceCoral, VoiceEcho, VoiceFable,
	VoiceOnyx, VoiceNova, VoiceSage, VoiceShimmer,
}

// IsValid reports whether v is a recognised voice.
func (v Voice) IsValid() bool {
	for _, known := range Voices {
		if v == known {
			return true
		}
	}
	return false
}

// MIMEMPEG is the encoding produced by both backend synthesis routes.
const MIMEMPEG = "audio/mpeg"

// Audio is a complete synthesised utterance.
type Audio struct {
	// MIME is the encoding of Data. Both backend routes emit audio/mpeg.
	MIME string

	// Data is the encoded audio byte stream, opaque to the controller.
	Data []byte
}
