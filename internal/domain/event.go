package domain

// CalendarEvent Googleカレンダーイベントのドメインエンティティ
type CalendarEvent struct {
	ID          string            `json:"id"`
	Summary     string            `json:"summary"`
	Description string            `json:"description,omitempty"`
	StartTime   string            `json:"start_time"` // RFC3339
	EndTime     string            `json:"end_time"`   // RFC3339
	Timezone    string            `json:"timezone,omitempty"`
	Location    string            `json:"location,omitempty"`
	HTMLLink    string            `json:"html_link,omitempty"`
	Fingerprint map[string]string `json:"fingerprint,omitempty"` // extendedProperties.private に埋め込まれた元ミーティング
}

// HasFingerprint このイベントが同期システムによって作成されたものかどうか
func (e CalendarEvent) HasFingerprint() bool {
	return len(e.Fingerprint) > 0
}
