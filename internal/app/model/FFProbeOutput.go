package model

// FFProbeOutput is the part of `ffprobe -print_format json -show_streams` the normalizer reads.
type FFProbeOutput struct {
	Streams []ProbeStream `json:"streams"`
}

type ProbeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	SampleRate int    `json:"sample_rate,string"`
	Channels   int    `json:"channels"`
}

// IsSpeechWav reports whether the stream is already 16 kHz mono PCM.
func (s ProbeStream) IsSpeechWav() bool {
	return s.CodecType == "audio" && s.CodecName == "pcm_s16le" && s.SampleRate == 16000 && s.Channels == 1
}
