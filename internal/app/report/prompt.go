package report

import "strings"

// SystemInstruction sets the model's persona for every synthesis call.
const SystemInstruction = "你是一位專業的醫療照護報告撰寫者，擅長將口語記錄整理成結構化的照護報告。你會確保報告的專業性、完整性和可讀性。"

// Sections are the five headers every report is asked to contain, in order.
var Sections = []string{
	"一、基本資訊",
	"二、病患狀況摘要",
	"三、照護執行紀錄",
	"四、特殊觀察重點",
	"五、後續照護建議",
}

// MissingInfoMarker is what the model writes for information absent from the transcript.
const MissingInfoMarker = "未提供相關資訊"

const promptTemplate = `
請根據以下的語音轉錄內容，生成一份結構完整的照護報告。

報告格式要求：
1. 基本資訊
   - 記錄時間：自動生成
   - 記錄護理師：從內容識別或標註「未指明」

2. 病患狀況摘要
   - 主要症狀和體徵
   - 生命徵象（若有提及）
   - 意識狀態
   - 整體狀況評估

3. 照護執行紀錄
   - 已完成的照護項目（條列式）
   - 用藥紀錄（若有）
   - 特殊處置（若有）
   - 飲食/營養狀況

4. 特殊觀察重點
   - 需要持續追蹤的症狀
   - 異常指標
   - 行為/情緒觀察
   - 風險評估

5. 後續照護建議
   - 待執行事項
   - 注意事項
   - 交班重點
   - 後續追蹤重點

請使用以下格式：
# 照護紀錄報告
[自動帶入現在時間]

## 一、基本資訊
[內容]

## 二、病患狀況摘要
[內容]

## 三、照護執行紀錄
[內容]

## 四、特殊觀察重點
[內容]

## 五、後續照護建議
[內容]

轉錄內容：
{{transcript}}

請以專業的醫療照護報告格式輸出，使用繁體中文，確保內容清晰易讀，重點明確。如果某些資訊未在轉錄內容中提及，請標註「未提供相關資訊」。
`

// BuildPrompt embeds the transcript verbatim into the report template.
func BuildPrompt(transcript string) string {
	return strings.Replace(promptTemplate, "{{transcript}}", transcript, 1)
}
