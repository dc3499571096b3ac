package live

// Modality declares a response medium the model may answer with.
type Modality string

const (
	// ModalityAudio requests spoken responses as streamed PCM.
	ModalityAudio Modality = "AUDIO"

	// ModalityText requests plain text responses.
	ModalityText Modality = "TEXT"
)

// FunctionDeclaration describes a tool the model can invoke during a session.
// Parameters follows the JSON schema convention, e.g.:
//
//	map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	        "patient_id": map[string]any{"type": "string"},
//	    },
//	    "required": []string{"patient_id"},
//	}
type FunctionDeclaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// Config holds the session options negotiated at connect time.
// The client copies it wholesale on each Connect; there is no partial merge.
type Config struct {
	// Voice selects the target voice identity for audio responses.
	Voice string

	// LanguageCode is a BCP-47 language hint (e.g. "en-US").
	LanguageCode string

	// ResponseModalities declares the media the model should answer with.
	ResponseModalities []Modality

	// ThinkingBudget caps extended reasoning tokens. Zero disables extended
	// reasoning; nil leaves the provider default in place.
	ThinkingBudget *int32

	// ProactiveAudio lets the model decide when to speak unprompted.
	ProactiveAudio bool

	// AffectiveDialog enables emotion-aware response styling.
	AffectiveDialog bool

	// InputTranscription requests transcripts of the user's speech.
	InputTranscription bool

	// OutputTranscription requests transcripts of the model's speech.
	OutputTranscription bool

	// SystemPrompt is the system instruction applied to the session.
	SystemPrompt string

	// Tools are declared to the model at setup time.
	Tools []FunctionDeclaration
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	if c.ResponseModalities != nil {
		out.ResponseModalities = append([]Modality(nil), c.ResponseModalities...)
	}
	if c.ThinkingBudget != nil {
		tb := *c.ThinkingBudget
		out.ThinkingBudget = &tb
	}
	if c.Tools != nil {
		out.Tools = append([]FunctionDeclaration(nil), c.Tools...)
	}
	return &out
}

// StripAudio returns a copy suitable for the turn-based text mode: audio
// fields are removed and the modality set is forced to TEXT.
func (c *Config) StripAudio() *Config {
	out := c.Clone()
	if out == nil {
		return nil
	}
	out.Voice = ""
	out.ProactiveAudio = false
	out.AffectiveDialog = false
	out.InputTranscription = false
	out.OutputTranscription = false
	out.ResponseModalities = []Modality{ModalityText}
	return out
}

// HasModality reports whether the config requests the given modality.
func (c *Config) HasModality(m Modality) bool {
	for _, rm := range c.ResponseModalities {
		if rm == m {
			return true
		}
	}
	return false
}
