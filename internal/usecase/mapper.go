package usecase

import (
	"fmt"

	"github.com/k-negishi/zoom-calendar-sync/internal/domain"
)

// AsCalendarEvent ミーティングから対応するカレンダーイベントを構築する純粋関数。
// 元のミーティング全体をフィンガープリントとして埋め込み、
// 後続サイクルでの再照合を可能にする
func AsCalendarEvent(meeting domain.Meeting) (domain.CalendarEvent, error) {
	endTime, err := domain.AddDuration(meeting.StartTime, meeting.Duration)
	if err != nil {
		return domain.CalendarEvent{}, fmt.Errorf("ミーティング %d の終了時刻の計算に失敗しました: %v", meeting.ID, err)
	}

	return domain.CalendarEvent{
		Summary:     meeting.Topic,
		Description: meeting.JoinURL,
		StartTime:   meeting.StartTime,
		EndTime:     endTime,
		Timezone:    meeting.Timezone,
		Location:    meeting.User,
		Fingerprint: meeting.StringFields(),
	}, nil
}
