package domain

import "strconv"

// Zoom APIのミーティング種別
const (
	MeetingTypeInstant         = 1 // インスタントミーティング
	MeetingTypeScheduled       = 2 // スケジュール済みミーティング
	MeetingTypeRecurringNoTime = 3 // 開始時刻の決まっていない定期ミーティング
	MeetingTypeRecurringFixed  = 8 // 開始時刻が固定の定期ミーティング
)

// Meeting Zoomミーティングのドメインエンティティ
type Meeting struct {
	UUID      string `json:"uuid"`
	ID        int64  `json:"id"`
	HostID    string `json:"host_id"`
	Topic     string `json:"topic"`
	Type      int    `json:"type"`
	StartTime string `json:"start_time,omitempty"` // RFC3339（UTC、"Z"付き）。定期ミーティング（type=3）では空
	Duration  int    `json:"duration"`
	Timezone  string `json:"timezone"`
	CreatedAt string `json:"created_at"`
	JoinURL   string `json:"join_url"`
	User      string `json:"user"` // 所有ユーザーのメールアドレス（取得時にタグ付け）
}

// HasStartTime 開始時刻が設定されているかどうか
func (m Meeting) HasStartTime() bool {
	return m.StartTime != ""
}

// StringFields 全フィールドを文字列表現のマップに変換する。
// カレンダーイベントのフィンガープリントとして埋め込まれ、
// 後続サイクルでのイベント照合の唯一の手掛かりになる。
func (m Meeting) StringFields() map[string]string {
	fields := map[string]string{
		"uuid":       m.UUID,
		"id":         strconv.FormatInt(m.ID, 10),
		"host_id":    m.HostID,
		"topic":      m.Topic,
		"type":       strconv.Itoa(m.Type),
		"duration":   strconv.Itoa(m.Duration),
		"timezone":   m.Timezone,
		"created_at": m.CreatedAt,
		"join_url":   m.JoinURL,
		"user":       m.User,
	}
	// 開始時刻のないミーティングはキー自体を含めない
	if m.HasStartTime() {
		fields["start_time"] = m.StartTime
	}
	return fields
}
