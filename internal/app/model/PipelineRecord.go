package model

const (
	// TimestampLayout is the run timestamp, YYYYMMDD_HHMMSS.
	TimestampLayout = "20060102_150405"
	// CreatedAtLayout is the human readable creation time stored in record.json.
	CreatedAtLayout = "2006-01-02 15:04:05"
)

// PipelineRecord is the aggregate written to record.json at the end of a run.
type PipelineRecord struct {
	Timestamp        string `json:"timestamp"`
	AudioFile        string `json:"audio_file"`
	RawTranscription string `json:"raw_transcription"`
	FormattedReport  string `json:"formatted_report"`
	CreatedAt        string `json:"created_at"`
	LineUserID       string `json:"line_user_id"`
}

// RecordPaths lists the files written for one record.
type RecordPaths struct {
	Dir       string `json:"dir"`
	AudioFile string `json:"audio_file"`
	RawText   string `json:"raw_text"`
	Report    string `json:"report"`
	Record    string `json:"record"`
}

// All returns the four artifact paths in write order.
func (p *RecordPaths) All() []string {
	return []string{p.AudioFile, p.RawText, p.Report, p.Record}
}
