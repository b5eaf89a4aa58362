package usecase

import "github.com/k-negishi/zoom-calendar-sync/internal/domain"

// FindMatch ミーティングに対応するカレンダーイベントをイベント列から探し、
// そのインデックスを返す（見つからなければ-1）。
// フィンガープリントを持つイベントを先頭から順に走査し、
// 最初に全フィールド一致したものを返す
func FindMatch(events []domain.CalendarEvent, meeting domain.Meeting) int {
	fields := meeting.StringFields()
	for i, event := range events {
		// フィンガープリントのないイベント（手作業登録など）は照合対象外
		if !event.HasFingerprint() {
			continue
		}
		if fingerprintMatches(event.Fingerprint, fields) {
			return i
		}
	}
	return -1
}

// fingerprintMatches フィンガープリントの全キーがミーティングの文字列表現と
// 一致するかを判定する。両者は異なるシリアライズ層を通るため、
// 型の一致ではなく文字列表現の一致で比較する。
// ミーティング側にだけ存在するキーは無視する
func fingerprintMatches(fingerprint, fields map[string]string) bool {
	for key, value := range fingerprint {
		actual, ok := fields[key]
		if !ok || actual != value {
			return false
		}
	}
	return true
}
