// Package prompt builds the instruction sent to the text-generation service
// when writing a chapter.
package prompt

import (
	"fmt"
	"strings"

	"lifestory/internal/domain/catalog"
	"lifestory/internal/domain/manuscript"
)

// writingRules are fixed authorial rules applied to every chapter.
var writingRules = []string{
	"文体: 敬体（です・ます調）で、温かく語りかけるような「聞き書き調」",
	"視点: 一人称（「私は」）で書く",
	"実名: 第三者の実名は使わない（「友人」「上司」「恩師」等で表現）",
	"断定: 他者への否定的断定は避ける（主観表現に変換）",
	"構成: 時系列を基本とし、印象的なエピソードを中心に",
	"分量: 1章あたり1,500〜2,000字程度",
	"感情: 語り手の感情を大切にし、補完はしても捏造しない",
	"事実不明: 不明確な事実は「〜だったように記憶しています」等の表現で",
}

// TranscriptHeader is the label placed before the i-th (1-based) transcript.
func TranscriptHeader(i int) string {
	return fmt.Sprintf("--- インタビュー %d ---", i)
}

// BuildWriting returns the chapter-writing instruction. It fails with
// manuscript.ErrInvalidChapter for numbers the catalog does not define and
// with manuscript.ErrNoTranscripts when no usable transcript is given.
func BuildWriting(cat *catalog.Catalog, chapterNumber int, transcripts []string) (string, error) {
	chapter, ok := cat.Chapter(chapterNumber)
	if !ok {
		return "", fmt.Errorf("%w: %d", manuscript.ErrInvalidChapter, chapterNumber)
	}
	if len(transcripts) == 0 {
		return "", manuscript.ErrNoTranscripts
	}
	for i, text := range transcripts {
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("%w: transcript %d is empty", manuscript.ErrNoTranscripts, i+1)
		}
	}

	var b strings.Builder
	b.WriteString("あなたは「やさしい聞き書きの専門家」です。\n")
	fmt.Fprintf(&b, "以下のインタビュー文字起こしデータを元に、自分史の「第%d章: %s（%s）」を執筆してください。\n\n",
		chapter.Number, chapter.Title, chapter.Description)

	b.WriteString("【執筆ルール】\n")
	for i, rule := range writingRules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rule)
	}

	b.WriteString("\n【入力データ】\n")
	for i, text := range transcripts {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(TranscriptHeader(i + 1))
		b.WriteString("\n")
		b.WriteString(text)
	}

	b.WriteString("\n\n【出力形式】\n以下の形式で出力してください:\n\n")
	fmt.Fprintf(&b, "## 第%d章 %s\n\n（本文をここに書いてください）", chapter.Number, chapter.Title)
	return b.String(), nil
}
