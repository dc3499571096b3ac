package live

import (
	"testing"
)

func TestMessageKindPriority(t *testing.T) {
	sc := &SetupComplete{}
	tc := &ToolCall{}
	cancel := &ToolCallCancellation{}
	content := &ServerContent{}

	tests := []struct {
		name string
		msg  ServerMessage
		want MessageKind
	}{
		{"empty", ServerMessage{}, KindUnknown},
		{"setup complete", ServerMessage{SetupComplete: sc}, KindSetupComplete},
		{"tool call", ServerMessage{ToolCall: tc}, KindToolCall},
		{"cancellation", ServerMessage{ToolCallCancellation: cancel}, KindToolCallCancellation},
		{"server content", ServerMessage{ServerContent: content}, KindServerContent},
		{"setup complete wins over content", ServerMessage{SetupComplete: sc, ServerContent: content}, KindSetupComplete},
		{"tool call wins over cancellation", ServerMessage{ToolCall: tc, ToolCallCancellation: cancel}, KindToolCall},
		{"cancellation wins over content", ServerMessage{ToolCallCancellation: cancel, ServerContent: content}, KindToolCallCancellation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseServerMessage(t *testing.T) {
	msg, err := ParseServerMessage([]byte(`{"serverContent":{"turnComplete":true}}`))
	if err != nil {
		t.Fatalf("ParseServerMessage: %v", err)
	}
	if msg.Kind() != KindServerContent {
		t.Errorf("Kind() = %v, want %v", msg.Kind(), KindServerContent)
	}
	if !msg.ServerContent.TurnComplete {
		t.Error("TurnComplete not decoded")
	}

	if _, err := ParseServerMessage([]byte(`{broken`)); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestSplitAudioParts(t *testing.T) {
	audioPart := func(data string) Part {
		return Part{InlineData: &Blob{MIMEType: "audio/pcm;rate=24000", Data: []byte(data)}}
	}
	textPart := func(text string) Part {
		return Part{Text: text}
	}
	imagePart := Part{InlineData: &Blob{MIMEType: "image/png", Data: []byte{1}}}

	audio, rest := splitAudioParts([]Part{
		textPart("a"), audioPart("1"), imagePart, audioPart("2"), textPart("b"),
	})

	if len(audio) != 2 || len(rest) != 3 {
		t.Fatalf("split = %d audio, %d rest; want 2, 3", len(audio), len(rest))
	}
	if string(audio[0].InlineData.Data) != "1" || string(audio[1].InlineData.Data) != "2" {
		t.Error("audio parts out of order")
	}
	if rest[0].Text != "a" || rest[2].Text != "b" {
		t.Error("rest parts out of order")
	}
}

func TestPartIsAudio(t *testing.T) {
	tests := []struct {
		name string
		part Part
		want bool
	}{
		{"text", Part{Text: "hi"}, false},
		{"pcm", Part{InlineData: &Blob{MIMEType: "audio/pcm"}}, true},
		{"pcm with rate", Part{InlineData: &Blob{MIMEType: "audio/pcm;rate=24000"}}, true},
		{"non-pcm audio", Part{InlineData: &Blob{MIMEType: "audio/ogg"}}, false},
		{"image", Part{InlineData: &Blob{MIMEType: "image/png"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.part.IsAudio(); got != tt.want {
				t.Errorf("IsAudio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyChunks(t *testing.T) {
	tests := []struct {
		name   string
		chunks []RealtimeChunk
		want   string
	}{
		{"empty", nil, "unknown"},
		{"audio", []RealtimeChunk{{MIMEType: "audio/pcm;rate=16000"}}, "audio"},
		{"image", []RealtimeChunk{{MIMEType: "image/jpeg"}}, "video"},
		{"video", []RealtimeChunk{{MIMEType: "video/mp4"}}, "video"},
		{"mixed", []RealtimeChunk{{MIMEType: "audio/pcm"}, {MIMEType: "image/jpeg"}}, "audio + video"},
		{"other", []RealtimeChunk{{MIMEType: "application/json"}}, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyChunks(tt.chunks); got != tt.want {
				t.Errorf("classifyChunks() = %q, want %q", got, tt.want)
			}
		})
	}
}
