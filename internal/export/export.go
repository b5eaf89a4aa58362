package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/k-negishi/zoom-calendar-sync/internal/domain"
)

// 開始時刻のないミーティングのCSV表示
const standingLabel = "Standing"

// MeetingsJSON ミーティング一覧を整形済みJSONに変換
func MeetingsJSON(meetings []domain.Meeting) (string, error) {
	data, err := json.MarshalIndent(meetings, "", "    ")
	if err != nil {
		return "", fmt.Errorf("ミーティングのJSON変換に失敗しました: %v", err)
	}
	return string(data), nil
}

// EventsJSON カレンダーイベント一覧を整形済みJSONに変換
func EventsJSON(events []domain.CalendarEvent) (string, error) {
	data, err := json.MarshalIndent(events, "", "    ")
	if err != nil {
		return "", fmt.Errorf("イベントのJSON変換に失敗しました: %v", err)
	}
	return string(data), nil
}

// WriteMeetingsCSV ミーティング一覧をCSVで書き出す。
// 列は when（ミーティングのタイムゾーンでの日時、開始時刻なしは "Standing"）,
// who（所有ユーザー）, what（トピック）, how（参加URL）
func WriteMeetingsCSV(w io.Writer, meetings []domain.Meeting) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"when", "who", "what", "how"}); err != nil {
		return fmt.Errorf("CSVヘッダーの書き出しに失敗しました: %v", err)
	}
	for _, meeting := range meetings {
		record := []string{
			formatWhen(meeting),
			meeting.User,
			strings.TrimSpace(meeting.Topic),
			meeting.JoinURL,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("CSV行の書き出しに失敗しました: %v", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSVの書き出しに失敗しました: %v", err)
	}
	return nil
}

// formatWhen 開始時刻をミーティング自身のタイムゾーンの表示用文字列に変換
func formatWhen(meeting domain.Meeting) string {
	if !meeting.HasStartTime() {
		return standingLabel
	}
	t, err := time.Parse(time.RFC3339, meeting.StartTime)
	if err != nil {
		// 解析できない場合は生の文字列をそのまま出す
		return meeting.StartTime
	}
	if meeting.Timezone != "" {
		if loc, err := time.LoadLocation(meeting.Timezone); err == nil {
			t = t.In(loc)
		}
	}
	return t.Format("2006-01-02 15:04 MST")
}
