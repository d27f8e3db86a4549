package pipeline

import "fmt"

const (
	TranscriptionPrefix = "原始轉錄文字：\n"
	ReportPrefix        = "整理後報告：\n"
	FailureMessage      = "處理音訊時發生錯誤，請稍後再試。\n錯誤訊息：%v"
)

// ReplyMessages formats the chat reply for a run: the transcript and the report on
// success, a single apology on failure. A failed run never shows partial output.
func ReplyMessages(res *Result, err error) []string {
	if err != nil || res == nil {
		if err == nil {
			err = fmt.Errorf("no result")
		}
		return []string{fmt.Sprintf(FailureMessage, err)}
	}
	return []string{
		TranscriptionPrefix + res.Transcription,
		ReportPrefix + res.Report,
	}
}
